package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"outcome-book/internal/engine"
	"outcome-book/internal/models"
)

// Reporter receives the outcome of every accepted submission.
type Reporter interface {
	Report(res engine.MatchResult) error
	Flush() error
}

// NewReporter returns the reporter for format, either "json" or "table".
func NewReporter(format string, w io.Writer) (Reporter, error) {
	switch format {
	case "json":
		return NewJSONReporter(w), nil
	case "table":
		return NewTableReporter(w, DefaultTableBatch), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// submissionRecord is one JSON line of output.
type submissionRecord struct {
	Order  models.Order   `json:"order"`
	Trades []models.Trade `json:"trades"`
	Makers []models.Order `json:"makers"`
	Rested bool           `json:"rested"`
}

// JSONReporter writes one JSON object per submission.
type JSONReporter struct {
	enc *json.Encoder
}

func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{enc: json.NewEncoder(w)}
}

func (r *JSONReporter) Report(res engine.MatchResult) error {
	return r.enc.Encode(submissionRecord{
		Order:  res.Taker,
		Trades: res.Trades,
		Makers: res.Makers,
		Rested: res.Rested,
	})
}

func (r *JSONReporter) Flush() error { return nil }

// DefaultTableBatch is how many trades a TableReporter holds before it
// renders them.
const DefaultTableBatch = 500

// TableReporter renders trades as tables of at most batch rows, so memory use
// does not grow with the length of the input.
type TableReporter struct {
	w        io.Writer
	batch    int
	trades   []models.Trade
	rendered bool
}

func NewTableReporter(w io.Writer, batch int) *TableReporter {
	if batch <= 0 {
		batch = DefaultTableBatch
	}
	return &TableReporter{w: w, batch: batch}
}

func (r *TableReporter) Report(res engine.MatchResult) error {
	for _, trade := range res.Trades {
		r.trades = append(r.trades, trade)
		if len(r.trades) >= r.batch {
			r.render()
		}
	}
	return nil
}

// Flush renders whatever is pending. An empty table is written only when
// nothing was rendered before.
func (r *TableReporter) Flush() error {
	if len(r.trades) > 0 || !r.rendered {
		r.render()
	}
	return nil
}

func (r *TableReporter) render() {
	writer := tablewriter.NewWriter(r.w)
	writer.SetHeader([]string{"seq", "book", "taker", "maker", "buyer", "seller", "side", "qty", "price", "notional"})
	for _, trade := range r.trades {
		writer.Append([]string{
			strconv.FormatUint(trade.Sequence, 10),
			trade.Key().String(),
			strconv.FormatUint(uint64(trade.TakerOrderID), 10),
			strconv.FormatUint(uint64(trade.MakerOrderID), 10),
			strconv.FormatInt(int64(trade.BuyerID), 10),
			strconv.FormatInt(int64(trade.SellerID), 10),
			trade.TakerSide.String(),
			strconv.FormatInt(trade.Quantity, 10),
			trade.Price.String(),
			trade.Notional().String(),
		})
	}
	writer.SetCaption(true, strconv.Itoa(len(r.trades))+" trades")
	writer.Render()
	r.trades = r.trades[:0]
	r.rendered = true
}
