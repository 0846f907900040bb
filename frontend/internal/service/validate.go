package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tastelink/tastelink/shared/domain"
	internal_errors "github.com/tastelink/tastelink/shared/errors"
	"github.com/tastelink/tastelink/shared/utils"
)

const DefaultImage = "https://picsum.photos/seed/default/600/400"

var PaymentMethods = []string{"n분의1", "각자결제", "선결제", "현금", "계좌이체", "카드결제", "기타"}

// PostForm is the raw create/edit form as submitted by the browser.
type PostForm struct {
	Writer        string
	Title         string
	Members       string
	Likes         string
	PaymentMethod string
	Image         string
	EventDate     string
	EndAt         string
}

type postInput struct {
	Writer        string `validate:"required,max=40"`
	Title         string `validate:"required,max=120"`
	PaymentMethod string `validate:"required,oneof=n분의1 각자결제 선결제 현금 계좌이체 카드결제 기타"`
	Members       int    `validate:"gte=1,lte=1000"`
	Likes         int    `validate:"gte=0"`
	Image         string `validate:"omitempty,url"`
	EventDate     *time.Time
	EndAt         *time.Time

	// KeepCapacity leaves members and capacity as stored: an edit of a post
	// whose capacity never resolved submits an empty members field.
	KeepCapacity bool
}

var fieldMessages = map[string]string{
	"Writer":        "작성자는 필수입니다.",
	"Title":         "제목은 필수입니다.",
	"PaymentMethod": "결제 방식을 선택하세요.",
	"Members":       "모집 인원은 1명 이상이어야 합니다.",
	"Likes":         "좋아요 수는 0 이상이어야 합니다.",
	"Image":         "이미지 주소가 올바르지 않습니다.",
}

var fieldNames = map[string]string{
	"Writer":        "writer",
	"Title":         "title",
	"PaymentMethod": "paymentMethod",
	"Members":       "members",
	"Likes":         "likes",
	"Image":         "image",
}

// normalizeImage trims stray quotes and adds a scheme; empty falls back to the placeholder.
func normalizeImage(raw string) string {
	image := strings.Trim(strings.TrimSpace(raw), `"`)
	if image == "" {
		return DefaultImage
	}
	if !strings.HasPrefix(image, "http") {
		image = "https://" + image
	}
	return image
}

func parseCountField(raw, field string, empty int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return empty, nil
	}
	if strings.HasPrefix(raw, "-") {
		return 0, &internal_errors.ValidationError{Field: fieldNames[field], Message: fieldMessages[field]}
	}
	n, ok := domain.ParseDigits(raw)
	if !ok {
		return 0, &internal_errors.ValidationError{Field: fieldNames[field], Message: fieldMessages[field]}
	}
	return n, nil
}

func parseDateField(raw, field, message string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t := domain.ParseTime(raw)
	if t == nil {
		return nil, &internal_errors.ValidationError{Field: field, Message: message}
	}
	return t, nil
}

// parsePostForm applies the create/edit rules. now and loc decide what "today" is.
// An empty members field means 1 on create and "unchanged" on edit.
func parsePostForm(form PostForm, now time.Time, loc *time.Location, creating bool) (postInput, error) {
	members, err := parseCountField(form.Members, "Members", 1)
	if err != nil {
		return postInput{}, err
	}
	keepCapacity := !creating && strings.TrimSpace(form.Members) == ""
	likes, err := parseCountField(form.Likes, "Likes", 0)
	if err != nil {
		return postInput{}, err
	}
	eventDate, err := parseDateField(form.EventDate, "eventDate", "모임 날짜 형식이 올바르지 않습니다.")
	if err != nil {
		return postInput{}, err
	}
	endAt, err := parseDateField(form.EndAt, "endAt", "모집 마감일 형식이 올바르지 않습니다.")
	if err != nil {
		return postInput{}, err
	}

	in := postInput{
		Writer:        strings.TrimSpace(form.Writer),
		Title:         strings.TrimSpace(form.Title),
		PaymentMethod: strings.TrimSpace(form.PaymentMethod),
		Members:       members,
		Likes:         likes,
		Image:         normalizeImage(form.Image),
		EventDate:     eventDate,
		EndAt:         endAt,
		KeepCapacity:  keepCapacity,
	}

	if err := utils.Validator().Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0].Field()
			return postInput{}, &internal_errors.ValidationError{Field: fieldNames[f], Message: fieldMessages[f]}
		}
		return postInput{}, err
	}

	if err := checkDates(in.EventDate, in.EndAt, now, loc); err != nil {
		return postInput{}, err
	}
	return in, nil
}

// checkDates: the meetup may not be before today and recruiting must close by the meetup.
func checkDates(eventDate, endAt *time.Time, now time.Time, loc *time.Location) error {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if eventDate != nil && eventDate.Before(today) {
		return &internal_errors.ValidationError{Field: "eventDate", Message: "모임 날짜는 오늘 이후여야 합니다."}
	}
	if eventDate != nil && endAt != nil && endAt.After(*eventDate) {
		return &internal_errors.ValidationError{Field: "endAt", Message: "모집 마감일은 모임 날짜 이전이거나 같아야 합니다."}
	}
	return nil
}

// apply writes the validated input onto p. members and capacity are kept equal
// unless the input keeps the stored ones.
func (in postInput) apply(p domain.Post) domain.Post {
	c := p.Clone()
	c.Writer = in.Writer
	c.Title = in.Title
	c.PaymentMethod = in.PaymentMethod
	c.Image = in.Image
	c.EventDate = in.EventDate
	c.EndAt = in.EndAt
	if in.KeepCapacity {
		return c
	}
	c.Members = in.Members
	capacity := in.Members
	c.Capacity = &capacity
	return c
}

// FormFromPost prefills the edit form.
func FormFromPost(p domain.Post, loc *time.Location) PostForm {
	const layout = "2006-01-02T15:04"
	form := PostForm{
		Writer:        p.Writer,
		Title:         p.Title,
		PaymentMethod: p.PaymentMethod,
		Image:         p.Image,
	}
	if c, ok := domain.ResolveCapacity(p); ok {
		form.Members = strconv.Itoa(c)
	}
	form.Likes = strconv.Itoa(p.Likes)
	if p.EventDate != nil {
		form.EventDate = p.EventDate.In(loc).Format(layout)
	}
	if p.EndAt != nil {
		form.EndAt = p.EndAt.In(loc).Format(layout)
	}
	return form
}
