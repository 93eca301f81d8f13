// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratings

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/ui"
	"github.com/taibuivan/yomira-widgets/internal/widget"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Star fills.
const (
	FillFull  = "full"
	FillHalf  = "half"
	FillEmpty = "empty"
)

type ratingView struct {
	Scope         string
	Key           string
	Frame         widget.Frame
	Messages      ui.Messages
	Loaded        bool
	LoadFailed    bool
	HasRatings    bool
	Average       string
	Count         string
	CurrentRating int
	Stars         []starView
	Distribution  []barView
	Chapters      []chapterView
}

type starView struct {
	Value    int
	Fill     string
	Preview  bool
	Selected bool
}

type barView struct {
	Star    int
	Count   int
	Percent int
}

type chapterView struct {
	Label  string
	Rating string
	Count  string
	Boost  string
}

// StarFill is the fill of star i (1-based) for average. Stars up to the integer
// part are full; the next one is half when the fraction reaches .5.
func StarFill(i int, average float64) string {
	whole := math.Floor(average)
	switch {
	case float64(i) <= whole:
		return FillFull
	case float64(i) == whole+1 && average-whole >= 0.5:
		return FillHalf
	default:
		return FillEmpty
	}
}

// FormatAverage renders an average as shown next to the stars, e.g. "4.3★".
func FormatAverage(average float64) string {
	return fmt.Sprintf("%.1f★", average)
}

// Render writes the widget fragment. Every outcome of a rating widget re-renders it whole.
func (rating *Widget) Render(_ context.Context, writer io.Writer, frame widget.Frame, outcome widget.Outcome) (widget.Swap, error) {
	if outcome.Render == widget.RenderNone {
		return widget.Swap{Strategy: widget.SwapNone}, nil
	}
	view := rating.view(frame)
	return widget.Swap{Target: "#" + view.Scope, Strategy: widget.SwapOuterHTML},
		templates.ExecuteTemplate(writer, "rating", view)
}

func (rating *Widget) view(frame widget.Frame) *ratingView {
	messages := rating.deps.Messages

	rating.mu.Lock()
	defer rating.mu.Unlock()

	view := &ratingView{
		Scope:         ScopeFor(rating.ref),
		Key:           rating.Key(),
		Frame:         frame,
		Messages:      messages,
		Loaded:        rating.loaded,
		LoadFailed:    rating.loadFailed,
		CurrentRating: rating.currentRating,
	}
	if rating.stats == nil {
		return view
	}
	stats := rating.stats

	view.HasRatings = stats.RatingCount > 0
	view.Average = FormatAverage(stats.AverageRating)
	view.Count = fmt.Sprintf(messages.RatingCount, stats.RatingCount)

	for i := constants.RatingMin; i <= constants.RatingMax; i++ {
		view.Stars = append(view.Stars, starView{
			Value:    i,
			Fill:     StarFill(i, stats.AverageRating),
			Preview:  i <= rating.hoverRating,
			Selected: i <= rating.currentRating,
		})
	}

	if rating.options.ShowDistribution && view.HasRatings {
		for star := constants.RatingMax; star >= constants.RatingMin; star-- {
			count := stats.RatingDistribution[star]
			view.Distribution = append(view.Distribution, barView{
				Star:    star,
				Count:   count,
				Percent: int(math.Round(float64(count) * 100 / float64(stats.RatingCount))),
			})
		}
	}

	for _, chapter := range stats.ChapterBreakdown {
		row := chapterView{
			Label:  "#" + strconv.FormatFloat(chapter.ChapterNumber, 'f', -1, 64),
			Rating: FormatAverage(chapter.Rating),
			Count:  fmt.Sprintf(messages.RatingCount, chapter.RatingCount),
		}
		if chapter.ChapterTitle != "" {
			row.Label += " " + chapter.ChapterTitle
		}
		if boost := (chapter.Weight - 1) * 100; boost > 0 {
			row.Boost = fmt.Sprintf(messages.PopularityBoost, boost)
		}
		view.Chapters = append(view.Chapters, row)
	}

	return view
}
