package docx

import (
	"strconv"
	"strings"
)

// DefaultBullet is used when a numbering level has no renderable glyph.
const DefaultBullet = "•"

// NumberingResolver resolves numbering definitions from numbering.xml.
type NumberingResolver struct {
	abstractNums map[string]*abstractNumXML // abstractNumId -> definition
	numMappings  map[string]string          // numId -> abstractNumId
}

// NewNumberingResolver creates a resolver from parsed numbering.xml.
func NewNumberingResolver(numbering *numberingXML) *NumberingResolver {
	nr := &NumberingResolver{
		abstractNums: make(map[string]*abstractNumXML),
		numMappings:  make(map[string]string),
	}

	if numbering == nil {
		return nr
	}

	for i := range numbering.AbstractNums {
		an := &numbering.AbstractNums[i]
		nr.abstractNums[an.AbstractNumID] = an
	}
	for _, num := range numbering.Nums {
		nr.numMappings[num.NumID] = num.AbstractNumID.value()
	}

	return nr
}

// IsList reports whether numbering properties reference a real list.
// numId 0 removes numbering inherited from a style.
func IsList(np *NumberingProps) bool {
	if np == nil {
		return false
	}
	id := np.NumID.value()
	return id != "" && id != "0"
}

// Bullet returns the glyph to show in front of a list paragraph. Bullet
// levels use their lvlText when it renders outside the private use area;
// everything else, including numbered levels, falls back to DefaultBullet.
func (nr *NumberingResolver) Bullet(np *NumberingProps) string {
	if !IsList(np) {
		return ""
	}
	level, _ := strconv.Atoi(np.ILvl.value())

	abstractID, ok := nr.numMappings[np.NumID.value()]
	if !ok {
		return DefaultBullet
	}
	abstractNum, ok := nr.abstractNums[abstractID]
	if !ok {
		return DefaultBullet
	}

	levelStr := strconv.Itoa(level)
	for _, lvl := range abstractNum.Levels {
		if lvl.ILvl != levelStr {
			continue
		}
		if lvl.NumFmt.value() == "bullet" {
			return getBulletChar(lvl.LvlText.value())
		}
		return DefaultBullet
	}
	return DefaultBullet
}

// getBulletChar returns lvlText when it is a usable glyph.
func getBulletChar(lvlText string) string {
	if lvlText != "" && !strings.Contains(lvlText, "%") && isRenderableBullet(lvlText) {
		return lvlText
	}
	return DefaultBullet
}

// isRenderableBullet checks if a bullet character will render properly.
// Returns false for Private Use Area characters that require special fonts.
func isRenderableBullet(s string) bool {
	for _, r := range s {
		// Word commonly uses U+F0xx for Symbol/Wingdings characters
		if r >= 0xE000 && r <= 0xF8FF {
			return false
		}
		if r < 0x20 {
			return false
		}
	}
	return len(s) > 0
}
