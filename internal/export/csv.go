// Package export writes keyword, shopping and rank tables as CSV.
//
// Files are UTF-8 with a byte order mark so spreadsheet tools detect the
// encoding of the Korean headers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rickgao/shoprank/internal/analysis"
	"github.com/rickgao/shoprank/internal/rank"
)

const bom = "\uFEFF"

var (
	KeywordHeader = []string{
		"순번", "연관키워드",
		"PC 월간검색수", "모바일 월간검색수",
		"PC 월평균클릭수", "모바일 월평균클릭수",
		"PC 월평균클릭률", "모바일 월평균클릭률",
		"경쟁정도", "월평균노출광고수",
	}
	ShoppingHeader = []string{"순위", "상품명", "최저가", "판매처", "브랜드", "카테고리", "링크"}
	RankHeader     = []string{"키워드", "결과", "순위", "상품명", "가격", "판매처", "링크"}
)

// WriteKeywords writes the keyword table.
func WriteKeywords(w io.Writer, rows []analysis.KeywordRow) error {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			strconv.Itoa(r.Seq),
			r.Keyword,
			analysis.FormatCount(r.PCVolume),
			analysis.FormatCount(r.MobileVolume),
			analysis.FormatCount(r.PCClicks),
			analysis.FormatCount(r.MobileClicks),
			analysis.FormatRate(r.PCCTR),
			analysis.FormatRate(r.MobileCTR),
			analysis.FormatText(r.Competition),
			analysis.FormatCount(r.AdDepth),
		}
	}
	return write(w, KeywordHeader, records)
}

// WriteShopping writes the shopping table.
func WriteShopping(w io.Writer, rows []analysis.ShoppingRow) error {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			strconv.Itoa(r.Position),
			r.Title,
			analysis.FormatPrice(r.Price),
			analysis.FormatText(r.Merchant),
			analysis.FormatText(r.Brand),
			analysis.FormatText(r.Category()),
			r.Link,
		}
	}
	return write(w, ShoppingHeader, records)
}

// WriteRankResults writes one row per keyword of a batch. Keywords without a
// match keep their row with rank "-".
func WriteRankResults(w io.Writer, items []rank.BatchItem) error {
	records := make([][]string, len(items))
	for i, it := range items {
		switch {
		case it.Err != nil:
			records[i] = []string{it.Keyword, string(rank.OutcomeFailed), "-", it.Err.Error(), "-", "-", ""}
		case it.Result.Best == nil:
			records[i] = []string{it.Keyword, string(it.Result.Outcome), "-", "-", "-", "-", ""}
		default:
			b := it.Result.Best
			records[i] = []string{
				it.Keyword,
				string(it.Result.Outcome),
				strconv.Itoa(b.Rank),
				b.Title,
				analysis.FormatPrice(b.Price),
				b.Merchant,
				b.Link,
			}
		}
	}
	return write(w, RankHeader, records)
}

func write(w io.Writer, header []string, records [][]string) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// ToFile creates dir if needed and writes a CSV named
// "{prefix}_{YYYYMMDD_HHMMSS}.csv" through fn. It returns the file path.
func ToFile(dir, prefix string, fn func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("20060102_150405")))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if err := fn(file); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	slog.Info("csv exported", "path", path)
	return path, nil
}
