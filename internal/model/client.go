package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ClientID identifies a loan applicant. The scoring API may send it as a JSON
// string or number; both decode to the same textual form.
type ClientID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ClientID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return eris.New("client id: null")
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "client id: decode string")
		}
		*id = ClientID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return eris.Wrap(err, "client id: decode number")
	}
	*id = ClientID(n.String())
	return nil
}

func (id ClientID) String() string { return string(id) }

// ParseClientID normalises user input into a ClientID.
func ParseClientID(s string) (ClientID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", eris.New("client id: empty")
	}
	return ClientID(s), nil
}

// Flag is a boolean that also decodes the Y/N and Yes/No spellings used by
// the source dataset.
type Flag bool

// UnmarshalJSON accepts true/false, 0/1 and Y/N/Yes/No strings.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "flag: decode")
	}
	switch v := raw.(type) {
	case bool:
		*f = Flag(v)
	case float64:
		*f = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "y", "yes", "true", "1":
			*f = true
		case "n", "no", "false", "0":
			*f = false
		default:
			return eris.Errorf("flag: unexpected value %q", v)
		}
	default:
		return eris.Errorf("flag: unexpected JSON value %s", string(data))
	}
	return nil
}

// String renders the flag the way the client information panel shows it.
func (f Flag) String() string {
	if f {
		return "Yes"
	}
	return "No"
}

// ClientDetail is one applicant's descriptive record. It is fetched fresh on
// every prediction and never cached.
type ClientDetail struct {
	ClientID      ClientID `json:"clientId" yaml:"client_id"`
	Age           float64  `json:"age" yaml:"age"`
	Gender        string   `json:"gender" yaml:"gender"`
	Children      int      `json:"children" yaml:"children"`
	YearsEmployed float64  `json:"yearsEmployed" yaml:"years_employed"`
	OwnRealty     Flag     `json:"ownRealty" yaml:"own_realty"`
	OwnCar        Flag     `json:"ownCar" yaml:"own_car"`
	TotalIncome   float64  `json:"totalIncome" yaml:"total_income"`
	Credit        float64  `json:"credit" yaml:"credit"`
}

type clientDetailWire struct {
	ClientID      *ClientID `json:"clientId"`
	Age           *float64  `json:"age"`
	Gender        *string   `json:"gender"`
	Children      *int      `json:"children"`
	YearsEmployed *float64  `json:"yearsEmployed"`
	OwnRealty     *Flag     `json:"ownRealty"`
	OwnCar        *Flag     `json:"ownCar"`
	TotalIncome   *float64  `json:"totalIncome"`
	Credit        *float64  `json:"credit"`
}

// UnmarshalJSON decodes a client record and fails with a MissingFieldError
// when any field the dashboard displays is absent.
func (d *ClientDetail) UnmarshalJSON(data []byte) error {
	var w clientDetailWire
	if err := json.Unmarshal(data, &w); err != nil {
		return eris.Wrap(err, "client detail: decode")
	}

	const resource = "client detail"
	switch {
	case w.ClientID == nil:
		return NewMissingFieldError(resource, "clientId")
	case w.Age == nil:
		return NewMissingFieldError(resource, "age")
	case w.Gender == nil:
		return NewMissingFieldError(resource, "gender")
	case w.Children == nil:
		return NewMissingFieldError(resource, "children")
	case w.YearsEmployed == nil:
		return NewMissingFieldError(resource, "yearsEmployed")
	case w.OwnRealty == nil:
		return NewMissingFieldError(resource, "ownRealty")
	case w.OwnCar == nil:
		return NewMissingFieldError(resource, "ownCar")
	case w.TotalIncome == nil:
		return NewMissingFieldError(resource, "totalIncome")
	case w.Credit == nil:
		return NewMissingFieldError(resource, "credit")
	}

	*d = ClientDetail{
		ClientID:      *w.ClientID,
		Age:           *w.Age,
		Gender:        *w.Gender,
		Children:      *w.Children,
		YearsEmployed: *w.YearsEmployed,
		OwnRealty:     *w.OwnRealty,
		OwnCar:        *w.OwnCar,
		TotalIncome:   *w.TotalIncome,
		Credit:        *w.Credit,
	}
	return nil
}

// FormatNumber renders a whole-number-or-decimal value without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
