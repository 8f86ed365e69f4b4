package translator

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Query is one msgpack-framed translation request, mirroring the
// teacher server's CompletionRequest field-per-query shape.
type Query struct {
	Id           string `msgpack:"id"`
	Input        string `msgpack:"input"`
	SegmentStart int    `msgpack:"segment_start"`
}

// CandidateWire is the wire shape of Candidate, flattened for
// msgpack encoding.
type CandidateWire struct {
	Type    string  `msgpack:"type"`
	Start   int     `msgpack:"start"`
	End     int     `msgpack:"end"`
	Text    string  `msgpack:"text"`
	Preedit string  `msgpack:"preedit"`
	Comment string  `msgpack:"comment"`
	Quality float64 `msgpack:"quality"`
}

// Response is one msgpack-framed reply carrying the candidate stream
// for a Query, mirroring CompletionResponse.
type Response struct {
	Id         string          `msgpack:"id"`
	Candidates []CandidateWire `msgpack:"candidates"`
}

func toWire(candidates []Candidate) []CandidateWire {
	out := make([]CandidateWire, len(candidates))
	for i, c := range candidates {
		out[i] = CandidateWire{
			Type:    c.Type,
			Start:   c.Start,
			End:     c.End,
			Text:    c.Entry.Text,
			Preedit: c.Preedit,
			Comment: c.Comment,
			Quality: c.Quality,
		}
	}
	return out
}

// DecodeQuery reads one msgpack-framed Query from r.
func DecodeQuery(r io.Reader) (Query, error) {
	var q Query
	dec := msgpack.NewDecoder(r)
	err := dec.Decode(&q)
	return q, err
}

// EncodeCandidates writes one msgpack-framed Response carrying
// candidates for the query identified by id.
func EncodeCandidates(w io.Writer, id string, candidates []Candidate) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(&Response{Id: id, Candidates: toWire(candidates)})
}
