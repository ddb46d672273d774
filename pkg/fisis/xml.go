package fisis

import (
	"encoding/xml"
	"io"
)

// envelope is the statisticsInfoSearch response shell. Row elements carry a
// variable set of children (one per figure column), so rows decode into a
// generic field list.
type envelope struct {
	XMLName xml.Name `xml:"result"`
	Code    string   `xml:"code"`
	Message string   `xml:"message"`
	Rows    []xmlRow `xml:"list>row"`
}

type xmlRow struct {
	Fields []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

func (r xmlRow) toMap() map[string]string {
	out := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		out[f.XMLName.Local] = f.Value
	}

	return out
}

func decodeEnvelope(r io.Reader) (*envelope, error) {
	var env envelope

	dec := xml.NewDecoder(r)

	err := dec.Decode(&env)
	if err != nil {
		return nil, err
	}

	return &env, nil
}
