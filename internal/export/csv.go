package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/eqreplay/internal/record"
)

// WritePayoffCSV writes the payoff dataset as CSV, one row per
// iteration and one column per player slot.
func WritePayoffCSV(w io.Writer, ds record.PayoffDataset) error {
	cw := csv.NewWriter(w)

	if len(ds) == 0 {
		return nil
	}

	header := []string{"iter"}
	for i := 0; i < ds.Slots(); i++ {
		header = append(header, fmt.Sprintf("payoff_%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range ds {
		row := []string{strconv.Itoa(r.Iter)}
		for _, v := range r.Payoffs {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
