// Package report renders the post-route summary: per-clock-domain
// fmax, worst and total negative slack, and routing/placement
// counters, as go-pretty tables the way core/util.go's PrintState
// renders its register/buffer tables.
package report

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nextpnr-go/corepnr/engine"
	"github.com/nextpnr-go/corepnr/idstring"
	"github.com/nextpnr-go/corepnr/timing"
)

// ClockSummary is one clock domain's derived frequency figures.
type ClockSummary struct {
	Domain       string
	WorstSlackPs float64
	PeriodPs     float64
	FmaxMHz      float64
}

// Summary is the fully reduced form of one Engine.Run's Result, ready
// to print or hand to a caller that wants the raw numbers.
type Summary struct {
	Routed            int
	Failed            int
	TimingRipupRounds int
	PlaceAccepts      int
	WorstSlackPs      float64
	TotalNegSlackPs   float64
	Clocks            []ClockSummary
}

// Summarize reduces one Result into a Summary. in resolves clock
// domain IdStrings (net names used as domain keys) back to names;
// periodPs supplies each domain's required period, defaulting to
// defaultPeriodPs when absent (mirroring timing.Analyser's own
// default-period fallback).
func Summarize(result engine.Result, in *idstring.Interner, periodPs map[idstring.ID]float64, defaultPeriodPs float64) Summary {
	s := Summary{
		Routed:            result.RouteResult.Routed,
		Failed:            len(result.RouteResult.Failed),
		TimingRipupRounds: result.RouteResult.TimingRipupRounds,
		PlaceAccepts:      result.PlaceAccepts,
		WorstSlackPs:      timing.WorstSlack(result.Timing),
		TotalNegSlackPs:   timing.TotalNegativeSlack(result.Timing),
	}

	worstByDomain := make(map[idstring.ID]float64)
	for _, nt := range result.Timing {
		for _, arc := range nt.Arcs {
			if cur, ok := worstByDomain[arc.ClockDomain]; !ok || arc.SetupSlackPs < cur {
				worstByDomain[arc.ClockDomain] = arc.SetupSlackPs
			}
		}
	}

	for domain, worst := range worstByDomain {
		period := defaultPeriodPs
		if p, ok := periodPs[domain]; ok {
			period = p
		}
		name := "(unclocked)"
		if domain != idstring.None {
			name = in.String(domain)
		}
		fmax := 0.0
		effective := period - worst
		if effective > 0 {
			fmax = 1e6 / effective // ps -> MHz
		}
		s.Clocks = append(s.Clocks, ClockSummary{
			Domain:       name,
			WorstSlackPs: worst,
			PeriodPs:     period,
			FmaxMHz:      fmax,
		})
	}
	sort.Slice(s.Clocks, func(i, j int) bool { return s.Clocks[i].Domain < s.Clocks[j].Domain })

	return s
}

// Print renders s as two tables: routing/placement counters, and the
// per-clock-domain timing breakdown.
func Print(s Summary) {
	counters := table.NewWriter()
	counters.SetTitle("Place & Route Summary")
	counters.AppendHeader(table.Row{"Metric", "Value"})
	counters.AppendRow(table.Row{"Arcs routed", s.Routed})
	counters.AppendRow(table.Row{"Arcs failed", s.Failed})
	counters.AppendRow(table.Row{"Timing rip-up rounds", s.TimingRipupRounds})
	counters.AppendRow(table.Row{"Placer accepted moves", s.PlaceAccepts})
	counters.AppendRow(table.Row{"Worst slack (ps)", fmt.Sprintf("%.1f", s.WorstSlackPs)})
	counters.AppendRow(table.Row{"Total negative slack (ps)", fmt.Sprintf("%.1f", s.TotalNegSlackPs)})
	fmt.Println(counters.Render())
	fmt.Println()

	clocks := table.NewWriter()
	clocks.SetTitle("Clock Domains")
	clocks.AppendHeader(table.Row{"Domain", "Period (ps)", "Worst Slack (ps)", "Fmax (MHz)"})
	for _, c := range s.Clocks {
		clocks.AppendRow(table.Row{c.Domain, fmt.Sprintf("%.1f", c.PeriodPs), fmt.Sprintf("%.1f", c.WorstSlackPs), fmt.Sprintf("%.2f", c.FmaxMHz)})
	}
	fmt.Println(clocks.Render())
}
