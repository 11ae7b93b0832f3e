package inbound

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/naghmatea/site/internal/customtea/usecase"
)

// formValue decodes any JSON value into text so scripted clients sending
// booleans or numbers are treated like the browser form. false, 0, null and
// "" decode to "" (absent). Numbers keep their shortest decimal form and
// arrays or objects keep their compact JSON text.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0, string(data) == "null", string(data) == "false":
		*v = ""
	case string(data) == "true":
		*v = "true"
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
	case data[0] == '{', data[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*v = formValue(buf.String())
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		if f == 0 {
			*v = ""
			return nil
		}
		*v = formValue(strconv.FormatFloat(f, 'f', -1, 64))
	}

	return nil
}

type SendCustomTeaRequest struct {
	CustomerName  formValue `json:"customerName" swaggertype:"string" example:"Alice"`
	CustomerEmail formValue `json:"customerEmail" swaggertype:"string" example:"alice@example.com"`
	CustomerPhone formValue `json:"customerPhone,omitempty" swaggertype:"string" example:"+212600000000"`
	DreamTea      formValue `json:"dreamTea" swaggertype:"string" example:"Green tea with mint and a hint of orange blossom"`
	Quantity      formValue `json:"quantity,omitempty" swaggertype:"string" example:"500g"`
	Lang          formValue `json:"lang,omitempty" swaggertype:"string" enums:"en,fr,ar" example:"fr"`
	Honeypot      formValue `json:"honeypot,omitempty" swaggertype:"string"`
}

func (r SendCustomTeaRequest) input() usecase.SubmitInput {
	return usecase.SubmitInput{
		CustomerName:  string(r.CustomerName),
		CustomerEmail: string(r.CustomerEmail),
		CustomerPhone: string(r.CustomerPhone),
		DreamTea:      string(r.DreamTea),
		Quantity:      string(r.Quantity),
		Lang:          string(r.Lang),
		Honeypot:      string(r.Honeypot),
	}
}

// SendCustomTeaResponse is returned for a delivered request. ID is always
// present, even when the provider returned an empty one.
type SendCustomTeaResponse struct {
	OK bool   `json:"ok" example:"true"`
	ID string `json:"id" example:"<0192f5e4-7c1a-7d3e-9b2a-6f1e4c8d2a10@naghmateas.com>"`
}

// AcceptedResponse is returned for requests dropped by the honeypot.
type AcceptedResponse struct {
	OK bool `json:"ok" example:"true"`
}

type HealthResponse struct {
	OK bool `json:"ok" example:"true"`
}
