package result

import (
	"fmt"
	"io"

	"github.com/markkurossi/tabulate"

	"github.com/oisee/q15mul/pkg/unit"
)

// PrintTrace renders a per-cycle trace of the shift-and-add loop.
func PrintTrace(w io.Writer, steps []unit.Step) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Cycle").SetAlign(tabulate.MR)
	tab.Header("Bit").SetAlign(tabulate.MR)
	tab.Header("A").SetAlign(tabulate.MR)
	tab.Header("B").SetAlign(tabulate.MR)
	tab.Header("Addend").SetAlign(tabulate.MR)
	tab.Header("Acc").SetAlign(tabulate.MR)

	for _, st := range steps {
		row := tab.Row()
		row.Column(fmt.Sprintf("%d", st.Cycle))
		row.Column(fmt.Sprintf("%d", st.Bit))
		row.Column(fmt.Sprintf("0x%04x", st.A))
		row.Column(fmt.Sprintf("0x%08x", st.B))
		if st.Bit == 1 {
			row.Column(fmt.Sprintf("0x%08x", st.Addend)).SetFormat(tabulate.FmtBold)
		} else {
			row.Column("")
		}
		row.Column(fmt.Sprintf("0x%08x", st.Acc))
	}
	tab.Print(w)
}

// PrintMismatches renders mismatches, at most limit rows (0 = all).
func PrintMismatches(w io.Writer, rows []Mismatch, limit int) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("A").SetAlign(tabulate.ML)
	tab.Header("B").SetAlign(tabulate.ML)
	tab.Header("Raw want").SetAlign(tabulate.ML)
	tab.Header("Raw got").SetAlign(tabulate.ML)
	tab.Header("Result want").SetAlign(tabulate.ML)
	tab.Header("Result got").SetAlign(tabulate.ML)

	for i, m := range rows {
		if limit > 0 && i >= limit {
			row := tab.Row()
			row.Column(fmt.Sprintf("... %d more", len(rows)-limit)).
				SetFormat(tabulate.FmtItalic)
			break
		}
		row := tab.Row()
		row.Column(m.A.String())
		row.Column(m.B.String())
		row.Column(m.WantRaw.String())
		raw := row.Column(m.GotRaw.String())
		if m.RawDiffers() {
			raw.SetFormat(tabulate.FmtBold)
		}
		row.Column(m.WantResult.String())
		res := row.Column(m.GotResult.String())
		if m.WantResult != m.GotResult {
			res.SetFormat(tabulate.FmtBold)
		}
	}
	tab.Print(w)
}
