package genai

const basePrompt = "pixel art illustration, "

// styleModifiers: fixed style set. Unknown style ids fall back to default's
// empty modifier, never an error.
var styleModifiers = map[string]string{
	"default":   "",
	"gameboy":   ", green monochrome Game Boy palette",
	"nes":       ", 8-bit NES style, limited color palette",
	"commodore": ", retro CRT screen effect",
}

func BuildPrompt(entryText, style string) string {
	modifier, ok := styleModifiers[style]
	if !ok {
		modifier = styleModifiers["default"]
	}
	return basePrompt + entryText + modifier
}
