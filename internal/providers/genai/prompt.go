package genai

import (
	"fmt"
	"strings"
)

// BuildComparisonPrompt turns the comparison into the instruction sent after
// both photos. The faces must survive untouched, the adjective is shown and
// never written, and both names are printed on the picture.
func BuildComparisonPrompt(name1, name2, adjective string) string {
	name1 = strings.TrimSpace(name1)
	name2 = strings.TrimSpace(name2)
	adjective = strings.TrimSpace(adjective)

	parts := []string{
		"ABSOLUTELY CRUCIAL INSTRUCTION: Your primary task is to use the real, unmodified faces from the two photos provided.",
		"Do NOT alter, redraw, or caricature the faces.",
		"Cut out the heads/faces precisely and place them onto new, fun, cartoon-style bodies.",
		fmt.Sprintf("Create an exaggerated cartoon image for young children that compares %s and %s.", name1, name2),
		fmt.Sprintf("The image must visually show that %s is more %s than %s.", name1, adjective, name2),
		"Do not write the adjective on the image.",
		fmt.Sprintf("The names '%s' and '%s' must be written clearly at the bottom of the image.", name1, name2),
	}
	return strings.Join(parts, " ")
}

// photoCaption introduces the photo that follows it in the request.
func photoCaption(name string) string {
	return fmt.Sprintf("This photo is of %s.", strings.TrimSpace(name))
}
