package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastelink/tastelink/shared/domain"
	internal_errors "github.com/tastelink/tastelink/shared/errors"
)

func TestParsePostForm(t *testing.T) {
	valid := PostForm{Writer: "하람", Title: "홍대 고기파티", Members: "5", PaymentMethod: "각자결제"}

	tests := []struct {
		name      string
		mutate    func(f *PostForm)
		wantField string
	}{
		{name: "valid"},
		{name: "missing title", mutate: func(f *PostForm) { f.Title = "  " }, wantField: "title"},
		{name: "missing writer", mutate: func(f *PostForm) { f.Writer = "" }, wantField: "writer"},
		{name: "unknown payment", mutate: func(f *PostForm) { f.PaymentMethod = "외상" }, wantField: "paymentMethod"},
		{name: "negative members", mutate: func(f *PostForm) { f.Members = "-1" }, wantField: "members"},
		{name: "zero members", mutate: func(f *PostForm) { f.Members = "0" }, wantField: "members"},
		{name: "non numeric members", mutate: func(f *PostForm) { f.Members = "다섯" }, wantField: "members"},
		{name: "negative likes", mutate: func(f *PostForm) { f.Likes = "-3" }, wantField: "likes"},
		{name: "bad event date", mutate: func(f *PostForm) { f.EventDate = "next friday" }, wantField: "eventDate"},
		{name: "event date yesterday", mutate: func(f *PostForm) { f.EventDate = "2025-10-15T23:59" }, wantField: "eventDate"},
		{name: "event date today", mutate: func(f *PostForm) { f.EventDate = "2025-10-16" }},
		{name: "end after event", mutate: func(f *PostForm) {
			f.EventDate = "2025-10-20T18:00"
			f.EndAt = "2025-10-21T00:00"
		}, wantField: "endAt"},
		{name: "end equal to event", mutate: func(f *PostForm) {
			f.EventDate = "2025-10-20T18:00"
			f.EndAt = "2025-10-20T18:00"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			if tt.mutate != nil {
				tt.mutate(&form)
			}
			_, err := parsePostForm(form, fixedNow, seoul, true)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var verr *internal_errors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestCheckDates_UsesConfiguredZone(t *testing.T) {
	// 2025-10-15 23:30 in UTC is already the 16th in Seoul.
	now := time.Date(2025, 10, 15, 23, 30, 0, 0, time.UTC)
	fifteenth := time.Date(2025, 10, 15, 12, 0, 0, 0, seoul)

	assert.Error(t, checkDates(&fifteenth, nil, now, seoul))
	assert.NoError(t, checkDates(&fifteenth, nil, now, time.UTC))
}

func TestNormalizeImage(t *testing.T) {
	assert.Equal(t, DefaultImage, normalizeImage(""))
	assert.Equal(t, DefaultImage, normalizeImage(`""`))
	assert.Equal(t, "https://cdn.example.com/a.png", normalizeImage(" cdn.example.com/a.png "))
	assert.Equal(t, "http://cdn.example.com/a.png", normalizeImage(`"http://cdn.example.com/a.png"`))
}

func TestFormFromPost(t *testing.T) {
	event := time.Date(2025, 10, 20, 9, 30, 0, 0, time.UTC)
	p := domain.Post{Writer: "하람", Title: "t", MaxMembers: intPtr(6), Likes: 2, EventDate: &event}

	form := FormFromPost(p, seoul)
	assert.Equal(t, "6", form.Members)
	assert.Equal(t, "2", form.Likes)
	assert.Equal(t, "2025-10-20T18:30", form.EventDate)
	assert.Empty(t, form.EndAt)
}
