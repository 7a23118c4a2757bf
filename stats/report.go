// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/matinst/instructions"
	"github.com/gomlx/matinst/resources"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle = lipgloss.NewStyle().Faint(false).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Faint(true).
			PaddingLeft(1).PaddingRight(1)
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 0, 0, 0)
)

func newPlainTable(alignments ...lipgloss.Position) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row < 0 {
				s = headerRowStyle
				return
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			alignment := lipgloss.Left
			if col < len(alignments) {
				alignment = alignments[col]
			} else if len(alignments) > 0 {
				alignment = alignments[len(alignments)-1]
			}
			s = s.Align(alignment)
			return
		})
}

// seconds formats d as seconds with millisecond precision.
func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f sec", d.Seconds())
}

// Report renders the statistics as tables: totals, instructions per device, accelerator transfers (only if
// any happened) and the top k heavy hitters.
func (a *Aggregator) Report(k int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Statistics"))
	sb.WriteString("\n")
	totals := newPlainTable(lipgloss.Left, lipgloss.Right)
	totals.Row("Total elapsed time", seconds(a.CompileTime()+a.RunTime()))
	totals.Row("Total compilation time", seconds(a.CompileTime()))
	totals.Row("Total execution time", seconds(a.RunTime()))
	sb.WriteString(totals.Render())
	sb.WriteString("\n")

	devices := newPlainTable(lipgloss.Left, lipgloss.Right)
	devices.Headers("Device", "Compiled", "Executed")
	for _, device := range instructions.DeviceClassValues() {
		devices.Row(device.String(),
			humanize.Comma(a.Compiled(device)), humanize.Comma(a.Executed(device)))
	}
	sb.WriteString(devices.Render())
	sb.WriteString("\n")

	var anyTransfer bool
	transfers := newPlainTable(lipgloss.Left, lipgloss.Right)
	transfers.Headers("Accelerator memory", "Count", "Bytes", "Time")
	for _, kind := range resources.TransferKindValues() {
		ts := a.Transfers(kind)
		if ts.Count > 0 {
			anyTransfer = true
		}
		transfers.Row(kind.String(), humanize.Comma(ts.Count), humanize.Bytes(uint64(ts.Bytes)), seconds(ts.Time))
	}
	if anyTransfer {
		sb.WriteString(transfers.Render())
		sb.WriteString("\n")
	}

	sb.WriteString(titleStyle.Render("Heavy hitter instructions"))
	sb.WriteString("\n")
	hitters := a.HeavyHitters(k)
	if len(hitters) == 0 {
		sb.WriteString("-\n")
		return sb.String()
	}
	table := newPlainTable(lipgloss.Right, lipgloss.Left, lipgloss.Right)
	table.Headers("#", "Instruction", "Time", "Count")
	for ii, h := range hitters {
		table.Row(fmt.Sprintf("%d", ii+1), h.Key, seconds(h.Time), humanize.Comma(h.Count))
	}
	sb.WriteString(table.Render())
	sb.WriteString("\n")
	return sb.String()
}
