package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanRemovesScriptBlocks(t *testing.T) {
	out := Clean("<script>alert(1)</script>hello")
	require.Equal(t, "hello", out)
	require.NotContains(t, out, "<script")
}

func TestCleanRemovesIframeAndScheme(t *testing.T) {
	require.Equal(t, "safe", Clean(`<iframe src="http://evil"></iframe>safe`))
	require.Equal(t, "alert(1)", Clean("javascript:alert(1)"))
	require.Equal(t, `<img src="x" "1">`, Clean(`<img src="x" onerror="1">`))
}

func TestCleanTrimsWhitespace(t *testing.T) {
	require.Equal(t, "hello world", Clean("  hello world  "))
}

func TestCleanRemovesNestedPayloads(t *testing.T) {
	// Removing an inner match must not leave behind a re-formed tag.
	require.Equal(t, "", Clean("<scr<script>x</script>ipt>alert(1)</script>"))
	require.Equal(t, "alert(1)", Clean("jjavascript:avascript:alert(1)"))
	require.Equal(t, "x", Clean("<ifr<iframe src=a></iframe>ame src=b></iframe>x"))
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"<script>alert(1)</script>hello",
		"javascript:javascript:alert(1)",
		"jjavascript:avascript:alert(1)",
		"<scr<script>x</script>ipt>alert(1)</script>",
		"  plain text  ",
		`<div onclick=doit()>x</div>`,
		"<SCRIPT type='text/javascript'>x</SCRIPT>tail",
	}
	for _, input := range inputs {
		once := Clean(input)
		require.Equal(t, once, Clean(once), "input: %q", input)
	}
}

func TestCleanValueRecursion(t *testing.T) {
	input := map[string]interface{}{
		"<script>k</script>name": "<script>v</script>value",
		"nested": []interface{}{
			"javascript:x",
			map[string]interface{}{"deep": "  padded  "},
		},
		"number": 42,
	}

	out, ok := CleanValue(input).(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "value", out["name"])
	require.Equal(t, 42, out["number"])

	nested, ok := out["nested"].([]interface{})
	require.True(t, ok)
	require.Equal(t, "x", nested[0])

	deep, ok := nested[1].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "padded", deep["deep"])
}

func TestIsSafePattern(t *testing.T) {
	require.True(t, IsSafePattern("Regularity in conducting classes"))
	require.True(t, IsSafePattern("B.Com (General)"))
	require.False(t, IsSafePattern("1; DROP TABLE users"))
	require.False(t, IsSafePattern("SELECT * FROM users"))
	require.False(t, IsSafePattern("x' OR 1=1"))
	require.False(t, IsSafePattern("comment -- injection"))
}

func TestStripHTML(t *testing.T) {
	require.Equal(t, "bold text", StripHTML("<b>bold</b> text"))
	require.Equal(t, "", StripHTML("<script>alert(1)</script>"))
}
