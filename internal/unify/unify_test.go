// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package unify

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textlab/corpus-engine/pkg/types"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"devanagari", "यह एक हिंदी वाक्य है", "hi"},
		{"arabic", "هذه جملة عربية طويلة بما يكفي", "ar"},
		{"chinese", "这是一个足够长的中文句子用于检测", "zh"},
		{"romanized hindi", "yaar kya kar raha hai tu abhi", "hi"},
		{"english", "I really think this is one of the best films ever made", "en"},
		{"too short", "hi there", "unknown"},
		{"empty", "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text))
		})
	}
}

func TestIsCodeMixed(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"mixed hindi english", "bhai this movie is bahut awesome yaar", true},
		{"pure english", "this movie is really awesome my friend", false},
		{"too short", "bhai yaar hai", false},
		{"indicators with punctuation", "kya scene hai bhai, just amazing!", true},
		{"substring not counted", "karma market is booming this year again", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCodeMixed(tt.text))
		})
	}
}

func TestHatexplainVote(t *testing.T) {
	post := func(labels ...string) hatexplainPost {
		var p hatexplainPost
		for _, l := range labels {
			p.Annotators = append(p.Annotators, struct {
				Label       string `json:"label"`
				AnnotatorID int    `json:"annotator_id"`
			}{Label: l})
		}
		return p
	}

	tests := []struct {
		name   string
		post   hatexplainPost
		want   int
		wantOK bool
	}{
		{"unanimous toxic", post("hatespeech", "offensive", "hatespeech"), 1, true},
		{"majority normal", post("normal", "normal", "offensive"), 0, true},
		{"mixed toxic classes outvote normal", post("hatespeech", "offensive", "normal"), 1, true},
		{"no recognizable labels", post("spam", ""), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := hatexplainVote(tt.post)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// writeRawHatexplain seeds a raw dir with a two-post dataset.
func writeRawHatexplain(t *testing.T, rawDir string) {
	t.Helper()
	dir := filepath.Join(rawDir, "hatexplain")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	dataset := `{
		"post_1": {"post_tokens": ["you", "people", "are", "absolutely", "terrible", "honestly"],
			"annotators": [{"label": "hatespeech"}, {"label": "offensive"}, {"label": "normal"}]},
		"post_2": {"post_tokens": ["what", "a", "lovely", "day", "for", "a", "walk"],
			"annotators": [{"label": "normal"}, {"label": "normal"}, {"label": "offensive"}]}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dataset.json"), []byte(dataset), 0o644))

	divisions := `{"train": ["post_1"], "test": ["post_2"]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post_id_divisions.json"), []byte(divisions), 0o644))
}

func TestHatexplainLoader(t *testing.T) {
	rawDir := t.TempDir()
	writeRawHatexplain(t, rawDir)

	records, err := hatexplainLoader{}.Load(rawDir)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byID := map[string]types.Record{}
	for _, r := range records {
		byID[r.ID] = r
	}

	toxic := byID["hatexplain_post_1"]
	assert.Equal(t, 1, toxic.LabelValue())
	assert.Equal(t, "you people are absolutely terrible honestly", toxic.Text)
	assert.Equal(t, "en", toxic.Language)
	assert.Equal(t, "train", toxic.Metadata["split"])

	normal := byID["hatexplain_post_2"]
	assert.Equal(t, 0, normal.LabelValue())
	assert.Equal(t, "test", normal.Metadata["split"])
}

func TestTextdetoxLoader(t *testing.T) {
	rawDir := t.TempDir()
	dir := filepath.Join(rawDir, "textdetox")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	lines := `{"text": "a perfectly neutral sentence", "toxic": 0, "language": "en"}
{"text": "a rather unpleasant sentence", "toxic": 1, "language": "en"}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.jsonl"), []byte(lines), 0o644))

	records, err := textdetoxLoader{}.Load(rawDir)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 0, records[0].LabelValue())
	assert.Equal(t, 1, records[1].LabelValue())
	assert.Equal(t, "en", records[0].Language)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestJigsawLoader(t *testing.T) {
	rawDir := t.TempDir()
	dir := filepath.Join(rawDir, "jigsaw")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	csvData := "id,comment_text,lang,toxic\n" +
		"101,a harmless remark about the weather,en,0\n" +
		"102,an insulting remark about a person,tr,1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "validation.csv"), []byte(csvData), 0o644))

	records, err := jigsawLoader{}.Load(rawDir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "jigsaw_101", records[0].ID)
	assert.Equal(t, "tr", records[1].Language)
	assert.Equal(t, 1, records[1].LabelValue())
}

func TestJigsawLoader_MissingColumn(t *testing.T) {
	rawDir := t.TempDir()
	dir := filepath.Join(rawDir, "jigsaw")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "validation.csv"), []byte("id,text\n1,x\n"), 0o644))

	_, err := jigsawLoader{}.Load(rawDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestSocialLoader_DeduplicatesIDs(t *testing.T) {
	rawDir := t.TempDir()
	dir := filepath.Join(rawDir, "reddit")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	lines := `{"id": "reddit_c1", "text": "yaar this thread is bahut interesting honestly", "subreddit": "india", "score": 4}
{"id": "reddit_c1", "text": "a completely different comment with the same id", "subreddit": "india", "score": 1}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "comments.jsonl"), []byte(lines), 0o644))

	records, err := socialLoader{platform: "reddit"}.Load(rawDir)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "reddit_c1", records[0].ID)
	assert.Equal(t, "reddit_c1_2", records[1].ID)
	assert.False(t, records[0].Labeled())
	assert.True(t, records[0].CodeMixed)
	assert.Equal(t, "hi", records[0].Language)
	assert.Equal(t, "india", records[0].Metadata["subreddit"])
}

func TestRun_WritesUnifiedFiles(t *testing.T) {
	corpusDir := t.TempDir()
	rawDir := filepath.Join(corpusDir, "raw")
	writeRawHatexplain(t, rawDir)

	redditDir := filepath.Join(rawDir, "reddit")
	require.NoError(t, os.MkdirAll(redditDir, 0o755))
	lines := `{"id": "reddit_c1", "text": "bhai the match yesterday was bahut exciting yaar", "subreddit": "cricket", "score": 10}
{"id": "reddit_c2", "text": "ok", "subreddit": "cricket", "score": 0}
`
	require.NoError(t, os.WriteFile(filepath.Join(redditDir, "comments.jsonl"), []byte(lines), 0o644))

	var log bytes.Buffer
	report, err := Run(types.UnifyConfig{CorpusDir: corpusDir}, &log)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalLabeled)
	assert.Equal(t, 1, report.TotalUnlabeled)
	assert.Equal(t, 1, report.Dropped) // the two-character comment
	assert.Equal(t, 1, report.CodeMixed)
	assert.Equal(t, 2, report.BySource["hatexplain"])
	assert.Equal(t, 1, report.BySource["reddit"])
	assert.Contains(t, log.String(), "skipped: textdetox")

	labeled, err := ReadRecords(filepath.Join(corpusDir, "unified", "labeled", "records.jsonl"))
	require.NoError(t, err)
	require.Len(t, labeled, 2)
	for _, rec := range labeled {
		assert.True(t, rec.Labeled())
	}

	unlabeled, err := ReadRecords(filepath.Join(corpusDir, "unified", "unlabeled", "records.jsonl"))
	require.NoError(t, err)
	require.Len(t, unlabeled, 1)
	assert.True(t, unlabeled[0].CodeMixed)

	_, err = os.Stat(filepath.Join(corpusDir, "reports", "unify_report.yaml"))
	assert.NoError(t, err)
}

func TestRun_UnknownPreset(t *testing.T) {
	_, err := Run(types.UnifyConfig{CorpusDir: t.TempDir(), Preset: "aggressive"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestReadRecords_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	in := []types.Record{
		{ID: "a", Text: "first record text here", Source: "test", Language: "en"},
		{ID: "b", Text: "second record text here", Source: "test", Language: "en", Label: types.IntPtr(1)},
	}
	require.NoError(t, WriteRecords(path, in))

	out, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in[0].ID, out[0].ID)
	require.NotNil(t, out[1].Label)
	assert.Equal(t, 1, *out[1].Label)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(bytes.Split(data, []byte("\n"))[0]), &first))
	_, hasLabel := first["label"]
	assert.False(t, hasLabel, "unlabeled records omit the label key")
}
