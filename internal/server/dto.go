package server

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"hustlehub/internal/service"
	"hustlehub/internal/validation"
)

type signupRequest struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func newTokenResponse(token string) tokenResponse {
	return tokenResponse{AccessToken: token, TokenType: "bearer"}
}

type profileRequest struct {
	Bio          *string   `json:"bio"`
	Skills       *[]string `json:"skills"`
	Interests    *[]string `json:"interests"`
	ProfileImage *string   `json:"profile_image"`
}

func (r profileRequest) patch() service.ProfilePatch {
	return service.ProfilePatch{
		Bio:          r.Bio,
		Skills:       r.Skills,
		Interests:    r.Interests,
		ProfileImage: r.ProfileImage,
	}
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// bounty accepts a number, a numeric string, an empty string or null.
// Anything it cannot read as an integer becomes "no bounty" instead of an error.
type bounty struct {
	value *int
}

func (b *bounty) UnmarshalJSON(data []byte) error {
	b.value = nil

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case json.Number:
		b.value = numberToInt(string(v))
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			b.value = &n
		}
	}
	return nil
}

// numberToInt truncates a JSON number toward zero.
func numberToInt(s string) *int {
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	n := int(f)
	return &n
}

var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDeadline(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

type opportunityRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	BountyAmount   bounty   `json:"bounty_amount"`
	Deadline       *string  `json:"deadline"`
}

// input converts the request into service input. A deadline that does not parse is a
// validation error; every other field is checked by the service.
func (r opportunityRequest) input() (service.OpportunityInput, error) {
	in := service.OpportunityInput{
		Title:          r.Title,
		Description:    r.Description,
		RequiredSkills: r.RequiredSkills,
		BountyAmount:   r.BountyAmount.value,
	}
	if r.Deadline != nil {
		deadline, ok := parseDeadline(*r.Deadline)
		if !ok {
			var errs validation.Errors
			errs.Add("deadline", "deadline must be an ISO 8601 date-time")
			return in, errs.Err()
		}
		in.Deadline = deadline
	}
	return in, nil
}

type applicationRequest struct {
	Message string `json:"message"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type postRequest struct {
	Content string `json:"content"`
}
