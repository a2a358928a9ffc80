package pipeline

import (
	"github.com/sells-group/fintide/internal/statement"
)

// Sentinels re-exported so callers can errors.Is against pipeline results
// without reaching into the loader package.
var (
	// ErrMissingInput reports caller errors on ingestion (no company id,
	// no period date, empty record). Callers skip the record and move on.
	ErrMissingInput = statement.ErrMissingInput

	// ErrDataIntegrity reports a statement key that resolved to no row id.
	ErrDataIntegrity = statement.ErrDataIntegrity
)
