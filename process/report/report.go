package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"tokoikan/models"
	"tokoikan/repository"

	"gorm.io/gorm"
)

// StatusLine aggregates the products sharing one status.
type StatusLine struct {
	Status string
	Count  int
	Stok   int
}

type Summary struct {
	Products int
	ByStatus []StatusLine
	// OutOfStock lists products marked tersedia with zero stock.
	OutOfStock []models.Ikan
}

// Summarize groups items by status in the catalog's display order; unknown
// statuses are appended after the known ones.
func Summarize(items []models.Ikan) Summary {
	counts := map[string]*StatusLine{}
	for _, it := range items {
		line, ok := counts[it.Status]
		if !ok {
			line = &StatusLine{Status: it.Status}
			counts[it.Status] = line
		}
		line.Count++
		line.Stok += it.Stok
	}

	sum := Summary{Products: len(items)}
	for _, st := range models.IkanStatuses {
		if line, ok := counts[st]; ok {
			sum.ByStatus = append(sum.ByStatus, *line)
			delete(counts, st)
		}
	}
	rest := make([]string, 0, len(counts))
	for st := range counts {
		rest = append(rest, st)
	}
	sort.Strings(rest)
	for _, st := range rest {
		sum.ByStatus = append(sum.ByStatus, *counts[st])
	}

	for _, it := range items {
		if it.Status == models.StatusTersedia && it.Stok == 0 {
			sum.OutOfStock = append(sum.OutOfStock, it)
		}
	}
	return sum
}

func Print(w io.Writer, sum Summary, list bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "products\t%d\n", sum.Products)
	for _, line := range sum.ByStatus {
		fmt.Fprintf(tw, "  %s\t%d\tstok=%d\n", line.Status, line.Count, line.Stok)
	}
	if len(sum.OutOfStock) > 0 {
		fmt.Fprintf(tw, "tersedia with zero stock\t%d\n", len(sum.OutOfStock))
		if list {
			for _, it := range sum.OutOfStock {
				fmt.Fprintf(tw, "  %d\t%s\t%.2f/%s\n", it.ID, it.Nama, it.Harga, it.SatuanHarga)
			}
		}
	}
	return tw.Flush()
}

// Run loads the full catalog and prints its summary.
func Run(ctx context.Context, db *gorm.DB, w io.Writer, list bool) error {
	items, err := repository.NewIkanRepo(db).List(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	return Print(w, Summarize(items), list)
}
