package forecast

import "math"

// ewma returns the exponentially weighted moving average of the series with
// the given span (alpha = 2/(span+1)), seeded on the first value.
func ewma(series []float64, span int) float64 {
	if len(series) == 0 {
		return 0
	}
	if span < 1 {
		span = 1
	}
	alpha := 2.0 / (float64(span) + 1.0)
	avg := series[0]
	for _, v := range series[1:] {
		avg = alpha*v + (1-alpha)*avg
	}
	return avg
}

// slope returns the least-squares slope per step of the series.
func slope(series []float64) float64 {
	n := float64(len(series))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range series {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}

// mean returns the arithmetic mean of the series.
func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// dailyReturns returns the day-over-day fractional changes of the series.
func dailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

// annualizedVolatility is the sample standard deviation of daily returns
// scaled by sqrt(252 trading days).
func annualizedVolatility(closes []float64) float64 {
	rets := dailyReturns(closes)
	if len(rets) < 2 {
		return 0
	}
	m := mean(rets)
	var ss float64
	for _, r := range rets {
		d := r - m
		ss += d * d
	}
	return math.Sqrt(ss/float64(len(rets)-1)) * math.Sqrt(252)
}

// tail returns the last n elements of the series (or all of it).
func tail(series []float64, n int) []float64 {
	if n <= 0 || n >= len(series) {
		return series
	}
	return series[len(series)-n:]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
