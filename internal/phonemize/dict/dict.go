// Package dict bundles a compact CMU-format English pronunciation dictionary.
package dict

import _ "embed"

// CMU is the bundled dictionary text, one "word PH1 PH2 ..." entry per line.
//
//go:embed cmudict.dict
var CMU string
