// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ui

import (
	"fmt"
	"time"

	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
)

// Messages is the visitor-facing text of the widgets.
type Messages struct {
	Generic      string
	Unreachable  string
	Retry        string
	Confirm      string
	Cancel       string
	Save         string
	Send         string
	LoginPrompt  string
	LoadingLabel string

	// Relative time
	JustNow    string
	MinutesAgo string // fmt verb %d
	HoursAgo   string // fmt verb %d
	DaysAgo    string // fmt verb %d
	DateLayout string

	// Comments
	CommentsTitle        string
	NoComments           string
	LoadCommentsFailed   string
	CommentPlaceholder   string
	ReplyPlaceholder     string
	CommentRequired      string
	CommentTooLong       string
	CommentPosted        string
	CommentUpdated       string
	CommentDeleted       string
	DeleteCommentTitle   string
	DeleteCommentMessage string
	Reply                string
	Like                 string
	Dislike              string
	Edit                 string
	Delete               string
	Report               string
	LoadMore             string
	ReportTitle          string
	ReportReasonLabel    string
	ReportDetailsLabel   string
	ReportReasonRequired string
	ReportSent           string
	ReportReasons        map[string]string

	// Ratings
	RatingsTitle        string
	NoRatings           string
	LoadRatingsFailed   string
	LoginToRate         string
	RatingSaved         string
	RatingRemoved       string
	RemoveRating        string
	RemoveRatingTitle   string
	RemoveRatingMessage string
	YourRating          string
	RatingCount         string // fmt verb %d
	ChapterBreakdown    string
	PopularityBoost     string // fmt verb %.0f
}

var catalog = map[string]Messages{
	"id": {
		Generic:      "Terjadi kesalahan. Silakan coba lagi.",
		Unreachable:  "Tidak dapat terhubung ke server. Periksa koneksi Anda.",
		Retry:        "Coba lagi",
		Confirm:      "Ya, lanjutkan",
		Cancel:       "Batal",
		Save:         "Simpan",
		Send:         "Kirim",
		LoginPrompt:  "Masuk untuk ikut berdiskusi.",
		LoadingLabel: "Memuat...",

		JustNow:    "baru saja",
		MinutesAgo: "%d menit lalu",
		HoursAgo:   "%d jam lalu",
		DaysAgo:    "%d hari lalu",
		DateLayout: "02/01/2006",

		CommentsTitle:        "Komentar",
		NoComments:           "Belum ada komentar. Jadilah yang pertama!",
		LoadCommentsFailed:   "Gagal memuat komentar.",
		CommentPlaceholder:   "Tulis komentar...",
		ReplyPlaceholder:     "Tulis balasan...",
		CommentRequired:      "Komentar tidak boleh kosong.",
		CommentTooLong:       "Komentar maksimal 5000 karakter.",
		CommentPosted:        "Komentar berhasil dikirim.",
		CommentUpdated:       "Komentar berhasil diperbarui.",
		CommentDeleted:       "Komentar berhasil dihapus.",
		DeleteCommentTitle:   "Hapus komentar",
		DeleteCommentMessage: "Apakah Anda yakin ingin menghapus komentar ini?",
		Reply:                "Balas",
		Like:                 "Suka",
		Dislike:              "Tidak suka",
		Edit:                 "Ubah",
		Delete:               "Hapus",
		Report:               "Laporkan",
		LoadMore:             "Muat lebih banyak",
		ReportTitle:          "Laporkan komentar",
		ReportReasonLabel:    "Alasan",
		ReportDetailsLabel:   "Keterangan (opsional)",
		ReportReasonRequired: "Pilih alasan laporan.",
		ReportSent:           "Laporan terkirim. Terima kasih.",
		ReportReasons: map[string]string{
			"spam":           "Spam",
			"harassment":     "Pelecehan",
			"inappropriate":  "Konten tidak pantas",
			"misinformation": "Informasi menyesatkan",
			"other":          "Lainnya",
		},

		RatingsTitle:        "Penilaian",
		NoRatings:           "Belum ada penilaian",
		LoadRatingsFailed:   "Gagal memuat penilaian.",
		LoginToRate:         "Silakan masuk untuk memberi penilaian.",
		RatingSaved:         "Penilaian berhasil disimpan.",
		RatingRemoved:       "Penilaian berhasil dihapus.",
		RemoveRating:        "Hapus penilaian",
		RemoveRatingTitle:   "Hapus penilaian",
		RemoveRatingMessage: "Apakah Anda yakin ingin menghapus penilaian Anda?",
		YourRating:          "Penilaian Anda",
		RatingCount:         "%d penilaian",
		ChapterBreakdown:    "Rincian per bab",
		PopularityBoost:     "+%.0f%% bonus popularitas",
	},
	"en": {
		Generic:      "Something went wrong. Please try again.",
		Unreachable:  "Could not reach the server. Check your connection.",
		Retry:        "Try again",
		Confirm:      "Yes, continue",
		Cancel:       "Cancel",
		Save:         "Save",
		Send:         "Send",
		LoginPrompt:  "Log in to join the discussion.",
		LoadingLabel: "Loading...",

		JustNow:    "just now",
		MinutesAgo: "%d min ago",
		HoursAgo:   "%d h ago",
		DaysAgo:    "%d days ago",
		DateLayout: "Jan 2, 2006",

		CommentsTitle:        "Comments",
		NoComments:           "No comments yet. Be the first!",
		LoadCommentsFailed:   "Failed to load comments.",
		CommentPlaceholder:   "Write a comment...",
		ReplyPlaceholder:     "Write a reply...",
		CommentRequired:      "Comment cannot be empty.",
		CommentTooLong:       "Comments are limited to 5000 characters.",
		CommentPosted:        "Comment posted.",
		CommentUpdated:       "Comment updated.",
		CommentDeleted:       "Comment deleted.",
		DeleteCommentTitle:   "Delete comment",
		DeleteCommentMessage: "Are you sure you want to delete this comment?",
		Reply:                "Reply",
		Like:                 "Like",
		Dislike:              "Dislike",
		Edit:                 "Edit",
		Delete:               "Delete",
		Report:               "Report",
		LoadMore:             "Load more",
		ReportTitle:          "Report comment",
		ReportReasonLabel:    "Reason",
		ReportDetailsLabel:   "Details (optional)",
		ReportReasonRequired: "Choose a reason for the report.",
		ReportSent:           "Report sent. Thank you.",
		ReportReasons: map[string]string{
			"spam":           "Spam",
			"harassment":     "Harassment",
			"inappropriate":  "Inappropriate content",
			"misinformation": "Misinformation",
			"other":          "Other",
		},

		RatingsTitle:        "Ratings",
		NoRatings:           "No ratings yet",
		LoadRatingsFailed:   "Failed to load ratings.",
		LoginToRate:         "Please log in to rate this content",
		RatingSaved:         "Rating saved.",
		RatingRemoved:       "Rating removed.",
		RemoveRating:        "Remove rating",
		RemoveRatingTitle:   "Remove rating",
		RemoveRatingMessage: "Are you sure you want to remove your rating?",
		YourRating:          "Your rating",
		RatingCount:         "%d ratings",
		ChapterBreakdown:    "Chapter breakdown",
		PopularityBoost:     "+%.0f%% popularity boost",
	},
}

// DefaultLocale is used for unknown locales.
const DefaultLocale = "id"

// Catalog returns the messages of locale, falling back to [DefaultLocale].
func Catalog(locale string) Messages {
	if messages, ok := catalog[locale]; ok {
		return messages
	}
	return catalog[DefaultLocale]
}

// ErrorText picks the toast text for err: the upstream message when the CMS
// gave one, the connectivity message for transport failures, else Generic.
func (messages Messages) ErrorText(err error) string {
	ae := apperr.As(err)
	switch {
	case ae == nil:
		return messages.Generic
	case ae.Code == apperr.CodeUpstreamUnreachable:
		return messages.Unreachable
	case ae.Message != "" && ae.Code != apperr.CodeInternal:
		return ae.Message
	default:
		return messages.Generic
	}
}

// Ago formats then relative to now. Anything older than a week shows as a date.
func (messages Messages) Ago(then, now time.Time) string {
	elapsed := now.Sub(then)
	switch {
	case then.IsZero():
		return ""
	case elapsed < time.Minute:
		return messages.JustNow
	case elapsed < time.Hour:
		return fmt.Sprintf(messages.MinutesAgo, int(elapsed/time.Minute))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf(messages.HoursAgo, int(elapsed/time.Hour))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf(messages.DaysAgo, int(elapsed/(24*time.Hour)))
	default:
		return then.Format(messages.DateLayout)
	}
}
