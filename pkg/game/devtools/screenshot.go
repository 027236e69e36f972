package devtools

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/color"

	"fours/pkg/engine/board"
	"fours/pkg/game/state"
)

// SaveScreenshotHTML saves the board and target side by side as an HTML file
// in dir and returns its path.
func SaveScreenshotHTML(g *state.Game, dir string) (string, error) {
	grid := g.Grid()
	if grid == nil {
		return "", fmt.Errorf("no grid")
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := filepath.Join(dir, fmt.Sprintf("screenshot-%s.html", timestamp))

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Fours - Screenshot</title>
    <style>
        body {
            background-color: #1a1a2e;
            color: #eee;
            font-family: 'Courier New', monospace;
            padding: 20px;
        }
        .header { color: #bb86fc; font-size: 18px; margin-bottom: 10px; }
        .status { color: #888; margin-bottom: 20px; }
        .board {
            background-color: #0f0f1a;
            padding: 20px;
            border-radius: 8px;
            display: inline-block;
            margin: 20px 20px 20px 0;
            vertical-align: top;
        }
        .row { display: flex; }
        .cell { width: 40px; height: 40px; margin: 2px; border-radius: 4px; }
        .inactive { background-color: transparent; border: 1px dashed #333; }
        .selected { outline: 3px solid #fff; }
        .messages { margin-top: 20px; border-top: 1px solid #333; padding-top: 10px; }
        .message { color: #ccc; margin: 5px 0; }
    </style>
</head>
<body>
`)

	lvl := grid.Level()
	fmt.Fprintf(&b, "    <div class=\"header\">Level %d: %s</div>\n", g.Level()+1, html.EscapeString(lvl.Name))
	fmt.Fprintf(&b, "    <div class=\"status\">Moves remaining: %d</div>\n", grid.MovesRemaining())

	grid.View(func(live, target *board.Grid, _ []*board.Group, selected *board.Group) {
		writeBoardHTML(&b, live, selected)
		writeBoardHTML(&b, target, nil)
	})

	if msgs := g.Messages(); len(msgs) > 0 {
		b.WriteString("    <div class=\"messages\">\n")
		for _, msg := range msgs {
			fmt.Fprintf(&b, "        <div class=\"message\">%s</div>\n", html.EscapeString(color.ClearCode(msg)))
		}
		b.WriteString("    </div>\n")
	}

	b.WriteString("</body>\n</html>\n")

	if err := os.WriteFile(filename, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

func writeBoardHTML(b *strings.Builder, grid *board.Grid, selected *board.Group) {
	b.WriteString("    <div class=\"board\">\n")
	for row := 0; row < grid.Rows(); row++ {
		b.WriteString("        <div class=\"row\">")
		for col := 0; col < grid.Cols(); col++ {
			cell := grid.Get(row, col)
			class := "cell"
			if !cell.Active() {
				class += " inactive"
			} else if selected != nil && selected.Contains(cell) {
				class += " selected"
			}
			style := ""
			if cell.Active() {
				style = fmt.Sprintf(` style="background-color:%s"`, html.EscapeString(cell.Color))
			}
			fmt.Fprintf(b, `<div class="%s"%s></div>`, class, style)
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("    </div>\n")
}
