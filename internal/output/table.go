// internal/output/table.go
package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/stockpilot/reorder/internal/domain"
)

const dateLayout = "2006-01-02"

// RenderPlan writes the synchronized plan as an aligned console table.
func RenderPlan(w io.Writer, result *domain.PlanResult) error {
	fmt.Fprintf(w, "Common order date: %s (as of %s)\n\n",
		result.CommonOrderDate.Format(dateLayout), result.Today.Format(dateLayout))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tMARKET\tORDER QTY\tORDER VALUE\tEOQ\tREORDER\tARRIVAL\tRUN OUT\tNEXT ORDER")
	for _, line := range result.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%.1f\t%s\t%s\t%s\t%s\n",
			line.Product,
			line.Market,
			line.RecommendedOrder,
			line.OrderValue.StringFixed(2),
			line.EOQ,
			line.ReorderDate.Format(dateLayout),
			line.ArrivalDate.Format(dateLayout),
			line.RunOutDate.Format(dateLayout),
			line.NextOrderDate.Format(dateLayout),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal order value: %s\n", result.TotalOrderValue.StringFixed(2))
	return nil
}

// RenderSensitivity writes what-if rows for one line and parameter.
func RenderSensitivity(w io.Writer, lineKey, param string, rows []domain.SensitivityRow) error {
	fmt.Fprintf(w, "Sensitivity for %s on %s\n\n", lineKey, param)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VALUE\tTARGET INVENTORY\tRECOMMENDED ORDER")
	for _, row := range rows {
		fmt.Fprintf(tw, "%.2f\t%.2f\t%.2f\n", row.Value, row.TargetInventory, row.RecommendedOrder)
	}
	return tw.Flush()
}
