package service

import (
	"mizan/internal/domain"
	"mizan/internal/repository"
)

// Totals are the per-type counts and weight sums of one user's day.
type Totals struct {
	GoodCount  int
	BadCount   int
	GoodWeight int
	BadWeight  int
}

func Aggregate(rows []repository.CheckedAction) Totals {
	var t Totals
	for _, r := range rows {
		switch r.Type {
		case domain.ActionGood:
			t.GoodCount++
			t.GoodWeight += r.Weight
		case domain.ActionBad:
			t.BadCount++
			t.BadWeight += r.Weight
		}
	}
	return t
}

// Verdict compares weights only. Equal weights are NEUTRAL whatever the counts.
func (t Totals) Verdict() string {
	switch {
	case t.GoodWeight > t.BadWeight:
		return domain.VerdictPositive
	case t.BadWeight > t.GoodWeight:
		return domain.VerdictNegative
	default:
		return domain.VerdictNeutral
	}
}
