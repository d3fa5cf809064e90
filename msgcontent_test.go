package msgcontent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpotapov/go-msgcontent/element"
	"github.com/dpotapov/go-msgcontent/markup"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		content string
		format  Format
		want    string
		wantErr error
	}{
		{
			name:    "text",
			content: `<p>Hi <span class="user-mention" data-user-id="7">@Alice</span></p>`,
			format:  FormatText,
			want:    "Hi  [ @Alice 7 ]\n\n",
		},
		{
			name:    "html",
			content: `<p>caf&#233;</p>`,
			format:  FormatHTML,
			want:    `<p>caf&#233;</p>`,
		},
		{
			name:    "html is canonical",
			content: "<p>café<br>x</p>",
			format:  FormatHTML,
			want:    "<p>caf&#233;<br/>x</p>",
		},
		{
			name:    "rejected",
			content: `<p><span class="bogus">x</span></p>`,
			format:  FormatText,
			wantErr: element.ErrUnsupportedTag,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.content, tt.format)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatText, f)

	f, err = ParseFormat("html")
	require.NoError(t, err)
	require.Equal(t, FormatHTML, f)

	_, err = ParseFormat("markdown")
	require.Error(t, err)
}

func TestRenderOrFallback(t *testing.T) {
	ok := RenderOrFallback("<p>fine</p>")
	require.False(t, ok.Fallback())
	require.Equal(t, "fine\n\n", ok.Text)
	require.Equal(t, markup.HTML("<p>fine</p>"), ok.HTML)
	require.Empty(t, ok.Context)

	bad := RenderOrFallback(`<p>see <span class="bogus">this &amp; that</span></p>`)
	require.True(t, bad.Fallback())
	require.ErrorIs(t, bad.Err, element.ErrIllegalMessage)
	require.Equal(t, "see this & that", bad.Text)
	require.Equal(t, markup.HTML(`<div class="unrenderable">see this &amp; that</div>`), bad.HTML)
	require.Contains(t, bad.Context, `<span class="bogus">this &amp; that</span>`)
}
