package stats

import "github.com/verte-zerg/watchlog/internal/model"

// ToLineSeries shapes daily counts into (day, count) points.
func ToLineSeries(daily []model.DailyTitleCount) []model.LinePoint {
	out := make([]model.LinePoint, len(daily))
	for i, d := range daily {
		out[i] = model.LinePoint{X: d.Day, Y: d.Titles}
	}
	return out
}

// ToCategorySeries shapes a ranking into (label, value) pairs in rank order.
func ToCategorySeries(ranking model.TitleRanking) []model.CategoryPoint {
	out := make([]model.CategoryPoint, len(ranking))
	for i, r := range ranking {
		out[i] = model.CategoryPoint{Label: r.Title, Value: r.Score}
	}
	return out
}

// Shares returns each value as a percentage of the series total.
func Shares(points []model.CategoryPoint) []float64 {
	out := make([]float64, len(points))
	total := 0
	for _, p := range points {
		total += p.Value
	}
	if total == 0 {
		return out
	}
	for i, p := range points {
		out[i] = float64(p.Value) / float64(total) * 100
	}
	return out
}

// dailySeries places each day's count at its day of month for plotting.
func dailySeries(points []model.LinePoint) lineSeries {
	s := lineSeries{X: make([]float64, len(points)), Values: make([]float64, len(points))}
	for i, p := range points {
		s.X[i] = float64(p.X)
		s.Values[i] = float64(p.Y)
	}
	return s
}

// dayRangeValues spreads the points over every day from the first to the last
// point; days with no records count zero.
func dayRangeValues(points []model.LinePoint) []float64 {
	if len(points) == 0 {
		return nil
	}
	first := points[0].X
	out := make([]float64, points[len(points)-1].X-first+1)
	for _, p := range points {
		out[p.X-first] = float64(p.Y)
	}
	return out
}
