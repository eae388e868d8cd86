package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/chrisconley/payflow/internal"
)

// renderQualityReport prints the batch audit as readable terminal tables.
func renderQualityReport(w io.Writer, report internal.QualityReport) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold).Sprint("Batch Quality Report"))

	summary := tablewriter.NewWriter(w)
	summary.SetBorder(false)
	summary.SetAutoWrapText(false)
	summary.SetAlignment(tablewriter.ALIGN_LEFT)
	summary.Append([]string{"Records", fmt.Sprintf("%d", report.Records)})
	summary.Append([]string{"Flagged rows", flaggedCell(report)})
	summary.Append([]string{"Duplicate subscription IDs", fmt.Sprintf("%d", report.DuplicateSubscriptionIDs)})
	summary.Append([]string{"Price range", priceRange(report)})
	summary.Append([]string{"Success rate", fmt.Sprintf("%.1f%%", report.SuccessRate*100)})
	summary.Append([]string{"Total MRR at risk", color.RedString(report.TotalMRRAtRisk)})
	summary.Append([]string{"Affected subscriptions", fmt.Sprintf("%d", report.AffectedSubscriptions)})
	summary.Render()

	renderDistribution(w, "Payment status", report.StatusDistribution)
	renderDistribution(w, "Billing cycle", report.CycleDistribution)
	renderDistribution(w, "Missing values", report.MissingByColumn)
}

func renderDistribution(w io.Writer, title string, counts []internal.ValueCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold).Sprint(title))

	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, count := range counts {
		table.Append([]string{count.Value, fmt.Sprintf("%d", count.Count)})
	}
	table.Render()
}

func flaggedCell(report internal.QualityReport) string {
	cell := fmt.Sprintf("%d", report.FlaggedRows)
	if report.FlaggedRows > 0 {
		return color.YellowString(cell)
	}
	return cell
}

func priceRange(report internal.QualityReport) string {
	if report.MinPrice == "" {
		return "n/a"
	}
	return fmt.Sprintf("%s to %s", report.MinPrice, report.MaxPrice)
}
