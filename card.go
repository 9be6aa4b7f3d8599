package ogcards

import (
	"strings"

	"github.com/eringen/ogcards/layout"
	"github.com/eringen/ogcards/markup"
)

// Card canvas size in pixels.
const (
	CardWidth  = 1200
	CardHeight = 630
)

// translucent is the alpha suffix applied to accent-colored borders.
const translucent = "33"

// ComposeCard builds the markup tree for one card. The date line is
// present only when req.PubDate is set and the author line only when the
// author differs from the title.
func ComposeCard(req CardRequest, p *Presentation) *markup.Node {
	t := p.Theme.WithFallbacks()

	var date *markup.Node
	if req.PubDate != nil && *req.PubDate != "" {
		date = markup.Text(*req.PubDate, markup.Style{
			FontSize: 48,
			MaxWidth: markup.Pct(100),
			Color:    t.Accent,
		}).As(markup.RoleDate)
	}

	title := markup.Text(req.Title, markup.Style{
		FontSize:   96,
		Margin:     markup.Symmetric(56, 0),
		TextAlign:  markup.TextAlignCenter,
		LineHeight: 1.2,
	}).As(markup.RoleTitle)

	var author *markup.Node
	if req.Author != req.Title {
		author = markup.Text(req.Author, markup.Style{
			FontSize: 64,
			Color:    t.Accent,
		}).As(markup.RoleAuthor)
	}

	content := markup.Column(markup.Style{
		Flex:     1,
		MaxWidth: markup.Pct(100),
		Justify:  markup.AlignCenter,
		Align:    markup.AlignCenter,
	}, date, title, author).As(markup.RoleContent)

	panel := markup.Row(markup.Style{
		Align:    markup.AlignCenter,
		MaxWidth: markup.Pct(100),
		Padding:  markup.All(32),
		Border: markup.Border{
			Width:  12,
			Radius: markup.Px(80),
			Color:  withAlpha(t.Accent, translucent),
		},
	}, avatarColumn(p.Avatar, t), content).As(markup.RolePanel)

	return markup.Column(markup.Style{
		MaxWidth:   markup.Pct(100),
		Justify:    markup.AlignCenter,
		Height:     markup.Pct(100),
		Background: t.Background,
		Color:      t.Foreground,
		Padding:    markup.All(48),
	}, panel).As(markup.RoleRoot)
}

func avatarColumn(a *AvatarAsset, t CardTheme) *markup.Node {
	if a == nil {
		return nil
	}
	img := markup.Image(a.DataURI, markup.Style{
		Width: markup.Pct(100),
		Border: markup.Border{
			Width:  2,
			Radius: markup.Pct(50),
			Color:  withAlpha(t.Accent, translucent),
		},
	}).As(markup.RoleAvatar)

	return markup.Column(markup.Style{
		Justify: markup.AlignCenter,
		Align:   markup.AlignCenter,
		Width:   markup.Pct(33.33),
		Height:  markup.Pct(100),
	}, img).As(markup.RoleAvatarColumn)
}

// withAlpha returns color as #rrggbb with alpha appended. Short hex forms
// are expanded and an existing alpha channel is replaced. Colors that are
// not hex are returned unchanged and stay opaque.
func withAlpha(color, alpha string) string {
	rgb, _, err := layout.SplitColor(color)
	if err != nil || !strings.HasPrefix(rgb, "#") {
		return color
	}
	return rgb + alpha
}
