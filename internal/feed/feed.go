// Package feed reads vendor drop files from disk: raw statement records as
// JSON envelopes and daily price bars as CSV or JSON. Reads are throttled so
// a large backfill cannot hammer the database.
package feed

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/fintide/internal/model"
	"github.com/sells-group/fintide/internal/pipeline"
)

// envelope is the on-disk shape of one raw statement record. Annual is a
// pointer so an omitted flag can fall back to the source default.
type envelope struct {
	StatementType string          `json:"statement_type"`
	PeriodDate    string          `json:"period_date"`
	Annual        *bool           `json:"annual"`
	Record        model.RawRecord `json:"record"`
}

// Source reads pending statement envelopes from dir/statements/<companyID>/.
// It implements pipeline.RecordSource.
type Source struct {
	dir           string
	limiter       *rate.Limiter
	defaultAnnual bool
}

// NewSource builds a Source over a feed directory. perSecond bounds how many
// files are read per second across all companies.
func NewSource(dir string, perSecond float64, burst int) *Source {
	if perSecond <= 0 {
		perSecond = 25
	}
	if burst <= 0 {
		burst = 5
	}
	return &Source{
		dir:     dir,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// WithDefaultAnnual sets how envelopes without an annual flag are treated.
func (s *Source) WithDefaultAnnual(annual bool) *Source {
	s.defaultAnnual = annual
	return s
}

// PendingStatements reads every envelope for a company, oldest file first.
// A company with no directory has nothing pending. Malformed envelopes are
// logged and skipped rather than failing the company.
func (s *Source) PendingStatements(ctx context.Context, companyID int64) ([]pipeline.StatementRecord, error) {
	companyDir := filepath.Join(s.dir, "statements", strconv.FormatInt(companyID, 10))
	entries, err := os.ReadDir(companyDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "feed: read dir %s", companyDir)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	records := make([]pipeline.StatementRecord, 0, len(names))
	for _, name := range names {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		path := filepath.Join(companyDir, name)
		rec, err := s.readEnvelope(path)
		if err != nil {
			zap.L().Warn("feed: skipping malformed envelope",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (s *Source) readEnvelope(path string) (*pipeline.StatementRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "feed: read envelope")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, eris.Wrap(err, "feed: decode envelope")
	}

	typ := model.StatementType(env.StatementType)
	switch typ {
	case model.StatementIncome, model.StatementBalance, model.StatementCashFlow:
	default:
		return nil, eris.Errorf("feed: unknown statement type %q", env.StatementType)
	}

	periodDate, err := time.Parse("2006-01-02", env.PeriodDate)
	if err != nil {
		return nil, eris.Wrapf(err, "feed: parse period date %q", env.PeriodDate)
	}

	annual := s.defaultAnnual
	if env.Annual != nil {
		annual = *env.Annual
	}

	return &pipeline.StatementRecord{
		Type:       typ,
		Record:     env.Record,
		PeriodDate: periodDate,
		Annual:     annual,
	}, nil
}
