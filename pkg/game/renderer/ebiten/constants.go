package ebiten

import "image/color"

// Color palette for the game
var (
	colorBackground      = color.RGBA{26, 26, 46, 255}    // Dark blue-gray
	colorMapBackground   = color.RGBA{15, 15, 26, 255}    // Darker for board area
	colorInactive        = color.RGBA{40, 40, 56, 255}    // Empty slot
	colorSelected        = color.RGBA{255, 255, 255, 255} // Outline of the selected group
	colorCursor          = color.RGBA{180, 150, 250, 255} // Outline of the group under the cursor
	colorPanelBackground = color.RGBA{30, 30, 50, 220}    // Semi-transparent dark
)

// Window and board geometry, in pixels.
const (
	windowMinWidth  = 640
	windowMinHeight = 480
	headerHeight    = 40
	messagesHeight  = 100
	boardMargin     = 20
	lineHeight      = 16
	cellInset       = 0.06 // fraction of a tile left as a gap around each cell
	outlineWidth    = 3
)

// Key repeat for held cursor keys, in ticks.
const (
	keyRepeatInitialDelay = 30
	keyRepeatInterval     = 6
)

// inputBuffer is how many intents may queue before input is dropped.
const inputBuffer = 8
