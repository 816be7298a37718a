// Package timeline exports a finished project as FCPXML so narration, scene
// images, and captions can be reworked in a video editor. It also reads and
// writes a plain XML interchange format for word timings.
package timeline

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scriptreel/captions"
	"scriptreel/scenes"
)

type FCPXML struct {
	XMLName   xml.Name  `xml:"fcpxml"`
	Version   string    `xml:"version,attr"`
	Resources Resources `xml:"resources"`
	Library   Library   `xml:"library"`
}

type Resources struct {
	Assets  []Asset  `xml:"asset,omitempty"`
	Formats []Format `xml:"format"`
	Effects []Effect `xml:"effect,omitempty"`
}

type Format struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr,omitempty"`
	FrameDuration string `xml:"frameDuration,attr,omitempty"`
	Width         string `xml:"width,attr,omitempty"`
	Height        string `xml:"height,attr,omitempty"`
	ColorSpace    string `xml:"colorSpace,attr,omitempty"`
}

type Effect struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	UID  string `xml:"uid,attr,omitempty"`
}

type Asset struct {
	ID            string   `xml:"id,attr"`
	Name          string   `xml:"name,attr"`
	UID           string   `xml:"uid,attr"`
	Start         string   `xml:"start,attr"`
	HasVideo      string   `xml:"hasVideo,attr,omitempty"`
	Format        string   `xml:"format,attr,omitempty"`
	HasAudio      string   `xml:"hasAudio,attr,omitempty"`
	AudioSources  string   `xml:"audioSources,attr,omitempty"`
	AudioChannels string   `xml:"audioChannels,attr,omitempty"`
	AudioRate     string   `xml:"audioRate,attr,omitempty"`
	Duration      string   `xml:"duration,attr"`
	MediaRep      MediaRep `xml:"media-rep"`
}

type MediaRep struct {
	Kind string `xml:"kind,attr"`
	Sig  string `xml:"sig,attr"`
	Src  string `xml:"src,attr"`
}

type Library struct {
	Events []Event `xml:"event"`
}

type Event struct {
	Name     string    `xml:"name,attr"`
	Projects []Project `xml:"project"`
}

type Project struct {
	Name      string     `xml:"name,attr"`
	Sequences []Sequence `xml:"sequence"`
}

type Sequence struct {
	Format      string `xml:"format,attr"`
	Duration    string `xml:"duration,attr"`
	TCStart     string `xml:"tcStart,attr"`
	TCFormat    string `xml:"tcFormat,attr"`
	AudioLayout string `xml:"audioLayout,attr"`
	AudioRate   string `xml:"audioRate,attr"`
	Spine       Spine  `xml:"spine"`
}

type Spine struct {
	XMLName    xml.Name    `xml:"spine"`
	AssetClips []AssetClip `xml:"asset-clip,omitempty"`
	Videos     []Video     `xml:"video,omitempty"`
	Titles     []Title     `xml:"title,omitempty"`
}

type AssetClip struct {
	XMLName   xml.Name `xml:"asset-clip"`
	Ref       string   `xml:"ref,attr"`
	Lane      string   `xml:"lane,attr,omitempty"`
	Offset    string   `xml:"offset,attr"`
	Name      string   `xml:"name,attr"`
	Duration  string   `xml:"duration,attr"`
	AudioRole string   `xml:"audioRole,attr,omitempty"`
}

type Video struct {
	XMLName  xml.Name `xml:"video"`
	Ref      string   `xml:"ref,attr"`
	Lane     string   `xml:"lane,attr,omitempty"`
	Offset   string   `xml:"offset,attr"`
	Name     string   `xml:"name,attr"`
	Duration string   `xml:"duration,attr"`
	Start    string   `xml:"start,attr,omitempty"`
}

type Title struct {
	XMLName      xml.Name      `xml:"title"`
	Ref          string        `xml:"ref,attr"`
	Lane         string        `xml:"lane,attr,omitempty"`
	Offset       string        `xml:"offset,attr"`
	Name         string        `xml:"name,attr"`
	Duration     string        `xml:"duration,attr"`
	Text         *TitleText    `xml:"text,omitempty"`
	TextStyleDef *TextStyleDef `xml:"text-style-def,omitempty"`
}

type TitleText struct {
	TextStyle TextStyleRef `xml:"text-style"`
}

type TextStyleRef struct {
	Ref  string `xml:"ref,attr"`
	Text string `xml:",chardata"`
}

type TextStyleDef struct {
	ID        string    `xml:"id,attr"`
	TextStyle TextStyle `xml:"text-style"`
}

type TextStyle struct {
	Font      string `xml:"font,attr"`
	FontSize  string `xml:"fontSize,attr"`
	FontColor string `xml:"fontColor,attr"`
	Alignment string `xml:"alignment,attr"`
}

// formatSeconds converts seconds to a frame-aligned FCPXML duration.
// 30fps video uses a 1001/30000s frame duration, so every offset must land
// on a multiple of 1001.
func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	totalFrames := int64(seconds * 30000 / 1001)
	return fmt.Sprintf("%d/30000s", totalFrames*1001)
}

// ExportOptions holds what goes on the FCPXML timeline.
type ExportOptions struct {
	ProjectName string
	AudioPath   string
	Duration    float64
	Scenes      []scenes.Scene
	Captions    []captions.Caption
}

// Export builds an FCPXML document with the narration audio on the spine,
// scene images as connected clips, and one title per caption.
func Export(opts ExportOptions) (*FCPXML, error) {
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("cannot export a zero-length timeline")
	}
	name := opts.ProjectName
	if name == "" {
		name = "Narrated Video"
	}

	doc := &FCPXML{
		Version: "1.11",
		Resources: Resources{
			Formats: []Format{
				{
					ID:            "r1",
					Name:          "FFVideoFormat1080p30",
					FrameDuration: "1001/30000s",
					Width:         "1080",
					Height:        "1920",
					ColorSpace:    "1-1-1 (Rec. 709)",
				},
			},
			Effects: []Effect{
				{ID: "r2", Name: "Text", UID: ".../Titles.localized/Basic Text.localized/Text.localized/Text.moti"},
			},
		},
	}

	spine := Spine{}

	if opts.AudioPath != "" {
		audioID := fmt.Sprintf("r%d", len(doc.Resources.Formats)+len(doc.Resources.Effects)+len(doc.Resources.Assets)+1)
		doc.Resources.Assets = append(doc.Resources.Assets, Asset{
			ID:            audioID,
			Name:          strings.TrimSuffix(filepath.Base(opts.AudioPath), filepath.Ext(opts.AudioPath)),
			UID:           filepath.Base(opts.AudioPath),
			Start:         "0s",
			HasAudio:      "1",
			AudioSources:  "1",
			AudioChannels: "1",
			AudioRate:     "44100",
			Duration:      formatSeconds(opts.Duration),
			MediaRep: MediaRep{
				Kind: "original-media",
				Sig:  filepath.Base(opts.AudioPath),
				Src:  "file://" + opts.AudioPath,
			},
		})
		spine.AssetClips = append(spine.AssetClips, AssetClip{
			Ref:       audioID,
			Offset:    "0s",
			Name:      "Narration",
			Duration:  formatSeconds(opts.Duration),
			AudioRole: "dialogue",
		})
	}

	for i, s := range opts.Scenes {
		if s.ImageURL == "" {
			continue
		}
		id := fmt.Sprintf("r%d", len(doc.Resources.Formats)+len(doc.Resources.Effects)+len(doc.Resources.Assets)+1)
		doc.Resources.Assets = append(doc.Resources.Assets, Asset{
			ID:       id,
			Name:     fmt.Sprintf("Scene %d", i+1),
			UID:      fmt.Sprintf("scene-%d", i+1),
			Start:    "0s",
			HasVideo: "1",
			Format:   "r1",
			Duration: formatSeconds(s.EndTime - s.StartTime),
			MediaRep: MediaRep{
				Kind: "original-media",
				Sig:  fmt.Sprintf("scene-%d", i+1),
				Src:  s.ImageURL,
			},
		})
		spine.Videos = append(spine.Videos, Video{
			Ref:      id,
			Lane:     "1",
			Offset:   formatSeconds(s.StartTime),
			Name:     fmt.Sprintf("Scene %d", i+1),
			Duration: formatSeconds(s.EndTime - s.StartTime),
		})
	}

	for i, c := range opts.Captions {
		styleID := fmt.Sprintf("ts%d", i+1)
		spine.Titles = append(spine.Titles, Title{
			Ref:      "r2",
			Lane:     "2",
			Offset:   formatSeconds(c.Start),
			Name:     c.Text,
			Duration: formatSeconds(c.End - c.Start),
			Text: &TitleText{
				TextStyle: TextStyleRef{Ref: styleID, Text: c.Text},
			},
			TextStyleDef: &TextStyleDef{
				ID: styleID,
				TextStyle: TextStyle{
					Font:      "Arial",
					FontSize:  "72",
					FontColor: "1 1 1 1",
					Alignment: "center",
				},
			},
		})
	}

	doc.Library = Library{
		Events: []Event{
			{
				Name: name,
				Projects: []Project{
					{
						Name: name,
						Sequences: []Sequence{
							{
								Format:      "r1",
								Duration:    formatSeconds(opts.Duration),
								TCStart:     "0s",
								TCFormat:    "NDF",
								AudioLayout: "mono",
								AudioRate:   "44.1k",
								Spine:       spine,
							},
						},
					},
				},
			},
		},
	}
	return doc, nil
}

// WriteFile marshals the document with the FCPXML doctype header.
func (f *FCPXML) WriteFile(path string) error {
	output, err := xml.MarshalIndent(f, "", "    ")
	if err != nil {
		return err
	}
	content := xml.Header + "<!DOCTYPE fcpxml>\n" + string(output) + "\n"
	return os.WriteFile(path, []byte(content), 0644)
}
