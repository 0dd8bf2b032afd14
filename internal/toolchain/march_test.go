package toolchain

import "testing"

func TestSplitMarch(t *testing.T) {
	cases := []struct {
		value, base, vendor string
	}{
		{"rv32imac", "rv32imac", ""},
		{"rv32imacxcustom", "rv32imac", "xcustom"},
		{"rv32imac_zicsr", "rv32imac_zicsr", ""},
		{"rv32imac_zicsr_xcustom", "rv32imac_zicsr", "xcustom"},
		{"rv32imac_xcustom_xother", "rv32imac", "xcustom_xother"},
		{"rv32imacxcv_zicsr", "rv32imac", "xcv_zicsr"},
		{"xonly", "", "xonly"},
	}
	for _, c := range cases {
		base, vendor := SplitMarch(c.value)
		if base != c.base || vendor != c.vendor {
			t.Errorf("SplitMarch(%q) = (%q, %q), want (%q, %q)",
				c.value, base, vendor, c.base, c.vendor)
		}
	}
}

func TestSplitMarchIdempotent(t *testing.T) {
	for _, value := range []string{"rv32imacxcustom", "rv32imac_zicsr_xcv", "rv32i"} {
		base, _ := SplitMarch(value)
		again, vendor := SplitMarch(base)
		if again != base || vendor != "" {
			t.Errorf("SplitMarch(%q) not stable: got (%q, %q)", base, again, vendor)
		}
	}
}

func TestExtractMarch(t *testing.T) {
	info := ExtractMarch([]string{"-Wall", "-march=rv32imacxcustom", "-g"})
	if info.Full != "-march=rv32imacxcustom" {
		t.Errorf("Full = %q", info.Full)
	}
	if info.Base != "-march=rv32imac" {
		t.Errorf("Base = %q", info.Base)
	}
	if !info.HasVendor {
		t.Error("HasVendor = false")
	}
}

func TestExtractMarchNoVendor(t *testing.T) {
	info := ExtractMarch([]string{"-march=rv32imac", "-O2"})
	if info.Full != "-march=rv32imac" {
		t.Errorf("Full = %q", info.Full)
	}
	if info.Base != "" || info.HasVendor {
		t.Errorf("standard-only march must not split: %+v", info)
	}
}

func TestExtractMarchAbsent(t *testing.T) {
	info := ExtractMarch([]string{"-Wall", "-O2"})
	if info.Full != "" || info.Base != "" || info.HasVendor {
		t.Errorf("got %+v, want zero value", info)
	}
}

func TestExtractMarchFirstWins(t *testing.T) {
	info := ExtractMarch([]string{"-march=rv32i", "-march=rv32imac"})
	if info.Full != "-march=rv32i" {
		t.Errorf("Full = %q", info.Full)
	}
}
