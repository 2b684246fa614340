package script

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/logrusorgru/aurora/v4"

	"github.com/jobinau/pg-partmaint/services"
)

// PrintReport renders the outcome of every executed statement as a table,
// followed by a one line summary.
func PrintReport(w io.Writer, report *services.ExecutionReport, noColor bool) {
	au := aurora.New(aurora.WithColors(!noColor))

	t := tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
	t.AddHeader("PARTITION", "STATUS", "SQLSTATE", "MESSAGE")

	for _, o := range report.Outcomes {
		if o.Succeeded() {
			t.AddLine(o.Statement.Partition, au.Green("created"), "", "")
			continue
		}
		t.AddLine(o.Statement.Partition, au.Red("failed"), o.SQLState, o.Err.Error())
	}
	t.Print()

	summary := fmt.Sprintf("%d created, %d failed", len(report.Succeeded()), len(report.Failed()))
	if report.Aborted {
		summary += fmt.Sprintf(", %d skipped", report.Skipped)
		fmt.Fprintf(w, "\n%s (%s)\n", summary, au.Yellow("aborted"))
		return
	}

	fmt.Fprintf(w, "\n%s\n", summary)
}
