// Package excel loads B.League play-by-play shot events from the
// coordinate-annotated event workbook, one sheet per season.
package excel

// Primary action ids (アクション1) that describe shot attempts.
var shotActionIDs = map[int]bool{
	1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 44: true, 45: true,
}

// Made-shot action ids.
var madeActionIDs = map[int]bool{1: true, 3: true, 4: true, 44: true}

// Three-point action ids.
var threePointActionIDs = map[int]bool{1: true, 2: true}

// Secondary action ids (アクション2) mapped to shot-type names. Tip-ins (92)
// and alley-oops (93) are excluded upstream.
var shotTypeByAction2 = map[int]string{
	27: "Jump Shot",
	28: "Layup",
	29: "Dunk",
	91: "Jump Shot",
	94: "Layup",
	95: "Hook Shot",
	96: "Floater",
	97: "Jump Shot",
	98: "Jump Shot",
	99: "Jump Shot",
}

var excludedAction2IDs = map[int]bool{92: true, 93: true}

// actionTypeName maps a secondary action id to its display name.
func actionTypeName(action2 int, present bool) string {
	if !present {
		return "Other"
	}
	if name, ok := shotTypeByAction2[action2]; ok {
		return name
	}
	return "Other"
}
