package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Additional-Code/hiretrack/internal/entity"
	form "github.com/Additional-Code/hiretrack/internal/form/order"
)

var orderColumns = []string{
	"ID", "Customer Name", "Receipt No.", "Item Hired", "How Many",
	"Hired On", "Return On", "Boxes", "Raffle",
}

func renderOrders(w io.Writer, orders []entity.Order) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, col := range orderColumns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for _, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s\t%s\t%d\t%d\n",
			o.ID, o.CustomerName, o.ReceiptNumber, o.ItemHired, o.HowMany,
			o.HiredOn, o.ReturnOn, o.BoxesNeeded, o.RaffleNumber)
	}
	return tw.Flush()
}

func renderOrder(w io.Writer, o *entity.Order) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%d\n", o.ID)
	fmt.Fprintf(tw, "Customer Name\t%s\n", o.CustomerName)
	fmt.Fprintf(tw, "Receipt No.\t%d\n", o.ReceiptNumber)
	fmt.Fprintf(tw, "Item Hired\t%s\n", o.ItemHired)
	fmt.Fprintf(tw, "How Many\t%d\n", o.HowMany)
	fmt.Fprintf(tw, "Hired On\t%s\n", o.HiredOn)
	fmt.Fprintf(tw, "Return On\t%s\n", o.ReturnOn)
	fmt.Fprintf(tw, "Boxes\t%d\n", o.BoxesNeeded)
	fmt.Fprintf(tw, "Raffle\t%d\n", o.RaffleNumber)
	return tw.Flush()
}

func renderFieldErrors(w io.Writer, errs form.Errors) {
	for _, field := range errs.SortedFields() {
		fmt.Fprintf(w, "  %s: %s\n", field, errs[field])
	}
}
