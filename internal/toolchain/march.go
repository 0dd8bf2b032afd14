package toolchain

import "strings"

const marchPrefix = "-march="

// MarchInfo is the decomposed architecture flag of a target. Downstream
// consumers use Base to keep base-ISA checking precise while disabling
// pedantic diagnostics on the vendor-extension portion.
type MarchInfo struct {
	Full      string // the complete -march flag as written, empty if absent
	Base      string // -march with vendor extensions stripped, empty if none to strip
	HasVendor bool
}

// ExtractMarch scans a flag list for the architecture-select flag and
// splits its value. The first -march flag wins.
func ExtractMarch(flags []string) MarchInfo {
	for _, f := range flags {
		if !strings.HasPrefix(f, marchPrefix) {
			continue
		}
		info := MarchInfo{Full: f}
		base, vendor := SplitMarch(f[len(marchPrefix):])
		if vendor != "" && base != "" {
			info.Base = marchPrefix + base
			info.HasVendor = true
		}
		return info
	}
	return MarchInfo{}
}

// SplitMarch splits a march value into the canonical base ISA and the
// vendor-extension suffix. Standard extensions are single letters in the
// leading rv run or _-separated z/s tokens; vendor extensions start with
// x, either embedded in the leading run or as their own token. Splitting
// an already-split base yields the base unchanged.
func SplitMarch(value string) (base, vendor string) {
	tokens := strings.Split(value, "_")
	for i, tok := range tokens {
		cut := -1
		if i == 0 {
			cut = strings.IndexByte(tok, 'x')
		} else if strings.HasPrefix(tok, "x") {
			cut = 0
		}
		if cut < 0 {
			continue
		}

		base = strings.Join(tokens[:i], "_")
		if cut > 0 {
			if base != "" {
				base += "_"
			}
			base += tok[:cut]
		}
		vendor = tok[cut:]
		if i+1 < len(tokens) {
			vendor += "_" + strings.Join(tokens[i+1:], "_")
		}
		return base, vendor
	}
	return value, ""
}
