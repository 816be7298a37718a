package timeline

import (
	"encoding/xml"
	"fmt"
	"os"

	"scriptreel/timing"
)

// TimingDoc is the XML interchange format for utterance and word timings.
// It lets timings produced by one run (or edited by hand) be imported into
// another without re-synthesizing the audio.
type TimingDoc struct {
	XMLName    xml.Name          `xml:"timings"`
	Version    string            `xml:"version,attr"`
	Utterances []TimingUtterance `xml:"utterance"`
}

type TimingUtterance struct {
	Text  string       `xml:"text,attr"`
	Start float64      `xml:"start,attr"`
	End   float64      `xml:"end,attr"`
	Words []TimingWord `xml:"word"`
}

type TimingWord struct {
	Text  string  `xml:"w,attr"`
	Start float64 `xml:"start,attr"`
	End   float64 `xml:"end,attr"`
}

// ExportTimings writes a timeline's utterance and word timings to path.
func ExportTimings(tl *timing.Timeline, path string) error {
	doc := TimingDoc{Version: "1"}

	for _, u := range tl.Utterances {
		entry := TimingUtterance{Text: u.Text, Start: u.Start, End: u.End}
		for _, w := range u.Words {
			entry.Words = append(entry.Words, TimingWord{Text: w.Word, Start: w.Start, End: w.End})
		}
		doc.Utterances = append(doc.Utterances, entry)
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(xml.Header), append(output, '\n')...), 0644)
}

// ImportTimings reads a timing document back into a timeline. Malformed XML
// is reported as an error rather than producing a partial timeline.
func ImportTimings(path string) (*timing.Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTimings(data)
}

func ParseTimings(data []byte) (*timing.Timeline, error) {
	var doc TimingDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed timing document: %v", err)
	}

	tl := &timing.Timeline{}
	for _, u := range doc.Utterances {
		if u.End < u.Start {
			return nil, fmt.Errorf("utterance %q ends before it starts", u.Text)
		}
		entry := timing.UtteranceTiming{
			Text:  u.Text,
			Start: u.Start,
			End:   u.End,
		}
		for _, w := range u.Words {
			word := timing.Word{Word: w.Text, Start: w.Start, End: w.End}
			entry.Words = append(entry.Words, word)
			tl.Words = append(tl.Words, word)
		}
		tl.Utterances = append(tl.Utterances, entry)
	}
	return tl, nil
}
