package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rickgao/shoprank/internal/analysis"
	"github.com/rickgao/shoprank/internal/app"
	"github.com/rickgao/shoprank/internal/export"
	"github.com/rickgao/shoprank/internal/history"
	"github.com/rickgao/shoprank/internal/model"
	"github.com/rickgao/shoprank/internal/rank"
	"github.com/rickgao/shoprank/internal/service"
)

type cli struct {
	app    *app.App
	out    io.Writer
	errOut io.Writer
}

func (c *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
}

// exportCSV writes a CSV into the export directory when enabled.
func (c *cli) exportCSV(enabled bool, prefix string, fn func(io.Writer) error) error {
	if !enabled {
		return nil
	}
	path, err := export.ToFile(c.app.Config.Export.Dir, prefix, fn)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.errOut, "saved %s\n", path)
	return nil
}

func (c *cli) rank(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	keywords := fs.String("keywords", "", "comma-separated keywords")
	merchant := fs.String("merchant", "", "merchant (store) name, matched as a substring")
	pageSize := fs.Int("page-size", 0, "listings per page (default from config)")
	maxPages := fs.Int("max-pages", 0, "pages to scan (default from config)")
	sortFlag := fs.String("sort", "", "relevance, price_asc, price_desc, sales or rating")
	csvOut := fs.Bool("csv", false, "also save the results as CSV")
	quiet := fs.Bool("quiet", false, "hide progress")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc := c.app.Service
	list, err := rank.ParseKeywords(*keywords, svc.MaxKeywords())
	if err != nil {
		return err
	}
	sort, err := model.ParseSortMode(*sortFlag)
	if err != nil {
		return err
	}

	var progress rank.ProgressFunc
	if !*quiet {
		progress = func(p rank.Progress) {
			if p.Done {
				fmt.Fprintf(c.errOut, "[%s] done after %d pages, %d matches\n", p.Keyword, p.PageIndex, p.Matches)
				return
			}
			fmt.Fprintf(c.errOut, "[%s] page %d/%d (%.0f%%)\n", p.Keyword, p.PageIndex+1, p.MaxPages, p.Fraction*100)
		}
	}

	base := model.RankQuery{Merchant: *merchant, PageSize: *pageSize, MaxPages: *maxPages, Sort: sort}
	items, err := svc.CheckRanks(ctx, list, base, progress)
	if err != nil {
		return err
	}

	tw := c.table()
	fmt.Fprintln(tw, "키워드\t결과\t순위\t상품명\t가격\t판매처")
	failed := 0
	for _, it := range items {
		switch {
		case it.Err != nil:
			failed++
			fmt.Fprintf(tw, "%s\t%s\t-\t%v\t\t\n", it.Keyword, rank.OutcomeFailed, it.Err)
		case it.Result.Best == nil:
			fmt.Fprintf(tw, "%s\t%s\t-\t\t\t\n", it.Keyword, it.Result.Outcome)
		default:
			b := it.Result.Best
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", it.Keyword, it.Result.Outcome, b.Rank, b.Title, analysis.FormatPrice(b.Price), b.Merchant)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := c.exportCSV(*csvOut, "rank", func(w io.Writer) error { return export.WriteRankResults(w, items) }); err != nil {
		return err
	}
	if failed == len(items) {
		return errors.New("every keyword failed")
	}
	return nil
}

func (c *cli) top(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("top", flag.ContinueOnError)
	keyword := fs.String("keyword", "", "search keyword")
	n := fs.Int("n", 50, "number of listings (max 100)")
	sortFlag := fs.String("sort", "", "search sort: relevance, price_asc, price_desc, sales or rating")
	orderFlag := fs.String("order", "", "table order: rank, price_asc or price_desc")
	target := fs.String("target", "", "merchant or title to look for in the top-N")
	mall := fs.String("mall", "", "filter by merchant")
	brand := fs.String("brand", "", "filter by brand")
	title := fs.String("title", "", "filter by title")
	csvOut := fs.Bool("csv", false, "also save the table as CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sort, err := model.ParseSortMode(*sortFlag)
	if err != nil {
		return err
	}
	order, err := analysis.ParseShoppingSort(*orderFlag)
	if err != nil {
		return err
	}

	view, err := c.app.Service.Shopping(ctx, service.ShoppingRequest{
		Keyword: *keyword,
		N:       *n,
		Sort:    sort,
		Order:   order,
		Target:  *target,
		Filter:  analysis.ShoppingFilter{Merchant: *mall, Brand: *brand, Title: *title},
	})
	if err != nil {
		return err
	}

	if *target != "" {
		if view.Target == nil {
			fmt.Fprintf(c.out, "%q: not in the top %d\n\n", *target, *n)
		} else {
			fmt.Fprintf(c.out, "%q: %d위 %s (%s)\n\n", *target, view.Target.Rank, view.Target.Title, view.Target.Merchant)
		}
	}

	tw := c.table()
	fmt.Fprintln(tw, "순위\t상품명\t최저가\t판매처\t브랜드")
	for _, r := range view.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Position, r.Title, analysis.FormatPrice(r.Price), r.Merchant, analysis.FormatText(r.Brand))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "\n%d listings, %d merchants, average %s원\n",
		view.Stats.Total, view.Stats.UniqueMerchants, analysis.FormatPrice(int64(view.Stats.AvgPrice)))

	return c.exportCSV(*csvOut, "shopping", func(w io.Writer) error { return export.WriteShopping(w, view.Rows) })
}

func (c *cli) analyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	keyword := fs.String("keyword", "", "search keyword")
	sortFlag := fs.String("sort", "", "search sort")
	limit := fs.Int("limit", 20, "brands and tokens to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sort, err := model.ParseSortMode(*sortFlag)
	if err != nil {
		return err
	}
	a, err := c.app.Service.Analyze(ctx, *keyword, sort, *limit)
	if err != nil {
		return err
	}

	s := a.Stats
	fmt.Fprintf(c.out, "상품 %d개 · 판매처 %d곳 · 브랜드 %d개\n", s.Total, s.UniqueMerchants, s.UniqueBrands)
	fmt.Fprintf(c.out, "평균 %s원 (최저 %s원, 최고 %s원)\n\n",
		analysis.FormatPrice(int64(s.AvgPrice)), analysis.FormatPrice(s.MinPrice), analysis.FormatPrice(s.MaxPrice))

	tw := c.table()
	fmt.Fprintln(tw, "가격대\t상품 수")
	for _, b := range s.Histogram {
		fmt.Fprintf(tw, "%s\t%d\n", b.Label, b.Count)
	}
	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "브랜드\t상품 수\t평균가")
	for _, b := range a.Brands {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", b.Brand, b.Count, analysis.FormatPrice(int64(b.AvgPrice)))
	}
	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "키워드\t빈도")
	for _, t := range a.Tokens {
		fmt.Fprintf(tw, "%s\t%d\n", t.Token, t.Count)
	}
	return tw.Flush()
}

func (c *cli) keywords(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("keywords", flag.ContinueOnError)
	keyword := fs.String("keyword", "", "hint keyword")
	sortFlag := fs.String("sort", "", "original, keyword, pc, mobile or total")
	desc := fs.Bool("desc", false, "sort descending")
	unknownFirst := fs.Bool("unknown-first", false, "list unknown metrics before known ones")
	filter := fs.String("filter", "", "keep keywords containing this text")
	csvOut := fs.Bool("csv", false, "also save the table as CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}

	by, err := analysis.ParseKeywordSort(*sortFlag)
	if err != nil {
		return err
	}
	view, err := c.app.Service.KeywordTable(ctx, *keyword, *filter, analysis.KeywordSort{
		By:           by,
		Desc:         *desc,
		UnknownFirst: *unknownFirst,
	})
	if err != nil {
		return err
	}

	if view.Source == service.SourceSearchFallback {
		fmt.Fprintln(c.errOut, "keyword tool unavailable; showing keywords from search result titles")
	}

	tw := c.table()
	fmt.Fprintln(tw, "순번\t연관키워드\tPC\t모바일\t합계\tPC 클릭률\t모바일 클릭률\t경쟁정도")
	for _, r := range view.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Seq, r.Keyword,
			analysis.FormatCount(r.PCVolume), analysis.FormatCount(r.MobileVolume), analysis.FormatCount(r.TotalVolume()),
			analysis.FormatRate(r.PCCTR), analysis.FormatRate(r.MobileCTR), analysis.FormatText(r.Competition))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	sum := view.Summary
	fmt.Fprintf(c.out, "\n%d keywords · PC %s · 모바일 %s · 합계 %s\n", sum.Keywords,
		analysis.FormatCount(model.Known(sum.PCVolume)),
		analysis.FormatCount(model.Known(sum.MobileVolume)),
		analysis.FormatCount(model.Known(sum.TotalVolume)))

	return c.exportCSV(*csvOut, "keywords", func(w io.Writer) error { return export.WriteKeywords(w, view.Rows) })
}

func (c *cli) history(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	keyword := fs.String("keyword", "", "filter by keyword")
	merchant := fs.String("merchant", "", "filter by merchant")
	limit := fs.Int("limit", 20, "checks to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	checks, err := c.app.Service.History(ctx, history.Filter{Keyword: *keyword, Merchant: *merchant, Limit: *limit})
	if err != nil {
		return err
	}

	tw := c.table()
	fmt.Fprintln(tw, "시각\t키워드\t판매처\t결과\t순위\t상품명")
	for _, ch := range checks {
		rankCell := "-"
		if ch.Found() {
			rankCell = fmt.Sprint(ch.Rank)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ch.CheckedAt.Local().Format(time.DateTime), ch.Keyword, ch.Merchant, ch.Outcome, rankCell, analysis.FormatText(ch.Title))
	}
	return tw.Flush()
}
