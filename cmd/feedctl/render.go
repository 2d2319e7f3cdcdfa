package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/news"
	"github.com/riskibarqy/playscout/internal/usecase"
)

const noFixturesMessage = "No fixtures for this day."

func renderFeed(w io.Writer, view usecase.FeedView, location *time.Location) error {
	if location == nil {
		location = time.UTC
	}
	if len(view.Groups) == 0 {
		_, err := fmt.Fprintln(w, noFixturesMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	for i, group := range view.Groups {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		marker := ""
		if group.HasLive {
			marker = " [LIVE]"
		}
		fmt.Fprintf(tw, "%s%s\n", group.Key, marker)
		for _, item := range group.Fixtures {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
				item.Kickoff.In(location).Format("15:04"),
				item.HomeTeam.Name,
				item.DisplayScore(),
				item.AwayTeam.Name,
				item.DisplayStatus,
				formatElapsed(item.ElapsedAt(view.Now)),
			)
		}
	}
	return tw.Flush()
}

func renderUpdate(w io.Writer, feed *usecase.FeedService, update usecase.FeedUpdate, search string) error {
	state := update.State
	header := fmt.Sprintf("== %s %s phase=%s", state.Now.In(feed.Location()).Format(time.TimeOnly), update.Reason, state.Phase)
	if !state.NextFetch.IsZero() {
		header += " next=" + state.NextFetch.In(feed.Location()).Format(time.TimeOnly)
	}
	if update.Reason == usecase.UpdateReasonError && state.LastError != "" {
		header += " error=" + state.LastError
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if state.Loading {
		_, err := fmt.Fprintln(w, "loading...")
		return err
	}
	return renderFeed(w, feed.View(state.Fixtures, search, state.Now), feed.Location())
}

func renderNews(w io.Writer, articles []news.Article) error {
	if len(articles) == 0 {
		_, err := fmt.Fprintln(w, "No news found.")
		return err
	}
	for _, article := range articles {
		published := ""
		if article.PublishedAt != nil {
			published = article.PublishedAt.Format(time.DateOnly) + " "
		}
		if _, err := fmt.Fprintf(w, "%s[%s] %s\n  %s\n", published, article.SourceName, strings.TrimSpace(article.Title), article.URL); err != nil {
			return err
		}
	}
	return nil
}

func formatElapsed(minutes *int) string {
	if minutes == nil {
		return ""
	}
	return fmt.Sprintf("%d'", *minutes)
}
