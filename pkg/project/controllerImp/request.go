package controllerImp

import (
	"bytes"
	"encoding/json"
	"strings"

	"shiptrack/pkg/ingest"
)

// flexString accepts a JSON string or number, so forms that post qty as 5 and
// as "5" bind the same way.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// UnmarshalParam is used by echo for form and query values.
func (f *flexString) UnmarshalParam(s string) error {
	*f = flexString(strings.TrimSpace(s))
	return nil
}

type createReq struct {
	DGWPIC         flexString `json:"dgw_pic" form:"dgw_pic"`
	AsusPIC        flexString `json:"asus_pic" form:"asus_pic"`
	PartNumber     flexString `json:"partnumber" form:"partnumber"`
	SKUCode        flexString `json:"sku_code" form:"sku_code"`
	Qty            flexString `json:"qty" form:"qty"`
	PriceVND       flexString `json:"price_vnd" form:"price_vnd"`
	AsusOrderEmail flexString `json:"asus_order_email" form:"asus_order_email"`
	SI             flexString `json:"si" form:"si"`
	EU             flexString `json:"eu" form:"eu"`
}

func (r createReq) candidate() ingest.Candidate {
	return ingest.Candidate{
		DGWPIC:         string(r.DGWPIC),
		AsusPIC:        string(r.AsusPIC),
		PartNumber:     string(r.PartNumber),
		SKUCode:        string(r.SKUCode),
		Qty:            string(r.Qty),
		PriceVND:       string(r.PriceVND),
		AsusOrderEmail: string(r.AsusOrderEmail),
		SI:             string(r.SI),
		EU:             string(r.EU),
	}
}

type pasteReq struct {
	Text string `json:"text" form:"text"`
}

type piReq struct {
	PI string `json:"pi" form:"pi"`
}

type statusReq struct {
	StatusText string `json:"status_text" form:"status_text"`
	Note       string `json:"note" form:"note"`
}

type bulkReq struct {
	Bill        string `json:"bill" form:"bill"`
	Lot         string `json:"lot" form:"lot"`
	Declaration string `json:"declaration" form:"declaration"`
	StatusText  string `json:"status_text" form:"status_text"`
	Note        string `json:"note" form:"note"`
}
