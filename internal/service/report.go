package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/healthdiary/backend/internal/models"
)

// Report is the structured reply the prompt asks the generator for. Every
// section is optional; absent sections are omitted from the formatted text.
type Report struct {
	Menu            *Menu          `json:"menu"`
	Exercise        *OrderedFields `json:"exercise"`
	Insights        []Insight      `json:"insights"`
	Recommendations []ActionItem   `json:"recommendations"`
}

// Menu is the daily menu section.
type Menu struct {
	Breakfast *Value `json:"breakfast"`
	Lunch     *Value `json:"lunch"`
	Dinner    *Value `json:"dinner"`
	Snacks    *Value `json:"snacks"`
}

// Value is a report field sent either as a string or as a list of strings.
// Any other JSON is kept in its compact form.
type Value struct {
	Text  string
	Items []string
	List  bool
}

func (v *Value) UnmarshalJSON(data []byte) error {
	*v = Value{}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		v.Text = s
		return nil
	}

	var items []string
	if err := json.Unmarshal(trimmed, &items); err == nil {
		v.Items = items
		v.List = true
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return err
	}
	v.Text = buf.String()
	return nil
}

// Field is one key of an OrderedFields object.
type Field struct {
	Key   string
	Value Value
}

// OrderedFields decodes a JSON object keeping the provider's key order.
type OrderedFields []Field

var errNotObject = errors.New("expected a JSON object")

func (o *OrderedFields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errNotObject
	}

	fields := OrderedFields{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return err
		}
		fields = append(fields, Field{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = fields
	return nil
}

// Insight is either free text or a finding with its explanation.
type Insight struct {
	Text        string
	Finding     *string
	Explanation string
	Structured  bool
}

func (i *Insight) UnmarshalJSON(data []byte) error {
	structured, err := decodeItem(data, &i.Text, func(raw []byte) error {
		var obj struct {
			Finding     *string `json:"finding"`
			Explanation string  `json:"explanation"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return err
		}
		i.Finding, i.Explanation = obj.Finding, obj.Explanation
		return nil
	})
	i.Structured = structured
	return err
}

// ActionItem is either free text or an area with a suggestion.
type ActionItem struct {
	Text       string
	Area       *string
	Suggestion string
	Structured bool
}

func (a *ActionItem) UnmarshalJSON(data []byte) error {
	structured, err := decodeItem(data, &a.Text, func(raw []byte) error {
		var obj struct {
			Area       *string `json:"area"`
			Suggestion string  `json:"suggestion"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return err
		}
		a.Area, a.Suggestion = obj.Area, obj.Suggestion
		return nil
	})
	a.Structured = structured
	return err
}

// decodeItem handles list items that may be objects or plain values. It
// reports whether the object form was used.
func decodeItem(data []byte, text *string, object func([]byte) error) (bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return true, object(trimmed)
	}
	var v Value
	if err := v.UnmarshalJSON(trimmed); err != nil {
		return false, err
	}
	if v.List {
		*text = strings.Join(v.Items, ", ")
	} else {
		*text = v.Text
	}
	return false, nil
}

var reportKeys = []string{"menu", "exercise", "insights", "recommendations"}

// ParseReport decodes a generator reply into a Report. It returns false for
// anything that is not a JSON object with at least one recognized section of
// the expected shape; callers then keep the reply verbatim.
func ParseReport(reply string) (*Report, bool) {
	body := stripCodeFence(reply)
	if !strings.HasPrefix(body, "{") {
		return nil, false
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &keys); err != nil {
		return nil, false
	}
	recognized := false
	for _, k := range reportKeys {
		if _, ok := keys[k]; ok {
			recognized = true
			break
		}
	}
	if !recognized {
		return nil, false
	}

	var report Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, false
	}
	report.dropEmptySections()
	if report.empty() {
		return nil, false
	}
	return &report, true
}

// dropEmptySections clears sections that are null or carry no content, so
// they neither count as recognized nor render a bare heading.
func (r *Report) dropEmptySections() {
	if m := r.Menu; m != nil && m.Breakfast == nil && m.Lunch == nil && m.Dinner == nil && m.Snacks == nil {
		r.Menu = nil
	}
	if r.Exercise != nil && len(*r.Exercise) == 0 {
		r.Exercise = nil
	}
	if len(r.Insights) == 0 {
		r.Insights = nil
	}
	if len(r.Recommendations) == 0 {
		r.Recommendations = nil
	}
}

func (r *Report) empty() bool {
	return r.Menu == nil && r.Exercise == nil && r.Insights == nil && r.Recommendations == nil
}

// stripCodeFence removes one markdown code fence (``` or ```json) wrapping
// the whole reply.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.IndexByte(s, '\n')
	if nl < 0 {
		return s
	}
	body := strings.TrimSpace(s[nl+1:])
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// FormatReply turns a generator reply into the stored recommendation text
// and reports which format was used.
func FormatReply(reply string) (string, string) {
	report, ok := ParseReport(reply)
	if !ok {
		return reply, models.FormatRaw
	}
	return report.Format(), models.FormatStructured
}

var sectionRule = strings.Repeat("=", 60)

// Format renders the report as a sectioned, human-readable text.
func (r *Report) Format() string {
	var parts []string
	section := func(title string) {
		if len(parts) > 0 {
			parts = append(parts, "\n"+sectionRule)
		} else {
			parts = append(parts, sectionRule)
		}
		parts = append(parts, title, sectionRule)
	}

	if r.Menu != nil {
		section("📋 DAILY MENU PLAN")
		meal := func(heading string, v *Value) {
			if v == nil {
				return
			}
			parts = append(parts, "\n"+heading+"\n"+v.block())
		}
		meal("☕ Breakfast:", r.Menu.Breakfast)
		meal("☀️ Lunch:", r.Menu.Lunch)
		meal("🌙 Dinner:", r.Menu.Dinner)
		if r.Menu.Snacks != nil {
			parts = append(parts, "\n🍎 Snacks:")
			if r.Menu.Snacks.List {
				for _, snack := range r.Menu.Snacks.Items {
					parts = append(parts, "  • "+snack)
				}
			} else {
				parts = append(parts, "  "+r.Menu.Snacks.Text)
			}
		}
	}

	if r.Exercise != nil {
		section("💪 EXERCISE RECOMMENDATIONS")
		caser := cases.Title(language.English)
		for _, f := range *r.Exercise {
			parts = append(parts, "\n"+caser.String(strings.ReplaceAll(f.Key, "_", " "))+":")
			parts = append(parts, f.Value.block())
		}
	}

	if r.Insights != nil {
		section("💡 HEALTH INSIGHTS")
		for idx, insight := range r.Insights {
			n := strconv.Itoa(idx + 1)
			if !insight.Structured {
				parts = append(parts, "\n"+n+". "+insight.Text)
				continue
			}
			title := "Insight " + n
			if insight.Finding != nil {
				title = *insight.Finding
			}
			parts = append(parts, "\n"+n+". "+title, "   "+insight.Explanation)
		}
	}

	if r.Recommendations != nil {
		section("⚠️ ACTION RECOMMENDATIONS")
		for idx, rec := range r.Recommendations {
			n := strconv.Itoa(idx + 1)
			if !rec.Structured {
				parts = append(parts, "\n"+n+". "+rec.Text)
				continue
			}
			title := "Recommendation " + n
			if rec.Area != nil {
				title = *rec.Area
			}
			parts = append(parts, "\n"+n+". "+title, "   "+rec.Suggestion)
		}
	}

	return strings.Join(parts, "\n")
}

func (v Value) block() string {
	if !v.List {
		return v.Text
	}
	lines := make([]string, len(v.Items))
	for i, item := range v.Items {
		lines[i] = "  • " + item
	}
	return strings.Join(lines, "\n")
}
