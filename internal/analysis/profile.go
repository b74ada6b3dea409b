package analysis

import (
	"fmt"
	"strings"
)

// Profile selects the morphological segmenter and dictionary for an index.
// It is fixed when an index is created.
type Profile int

const (
	// Korean segments with kagome and the mecab-ko-dic dictionary.
	Korean Profile = iota
	// JapaneseIPADIC segments with kagome and IPADIC.
	JapaneseIPADIC
	// JapaneseUniDic segments with kagome and UniDic.
	JapaneseUniDic
	// Chinese segments with gse and its embedded dictionary.
	Chinese
)

type profileInfo struct {
	name       string
	tokenizer  string
	dictionary string
	aliases    []string
}

var profiles = [...]profileInfo{
	Korean:         {"korean", "lang_ko", "ko-dic", []string{"ko", "ko-dic"}},
	JapaneseIPADIC: {"japanese-ipadic", "lang_ja_ipadic", "ipadic", []string{"ja", "ipadic", "japanese"}},
	JapaneseUniDic: {"japanese-unidic", "lang_ja_unidic", "unidic", []string{"unidic"}},
	Chinese:        {"chinese", "lang_zh", "cc-cedict", []string{"zh", "cc-cedict"}},
}

// Profiles returns every supported profile in declaration order.
func Profiles() []Profile {
	return []Profile{Korean, JapaneseIPADIC, JapaneseUniDic, Chinese}
}

// Valid reports whether p is one of the declared profiles.
func (p Profile) Valid() bool {
	return p >= Korean && p <= Chinese
}

// String returns the stable profile name used in config files and manifests.
func (p Profile) String() string {
	if !p.Valid() {
		return fmt.Sprintf("profile(%d)", int(p))
	}
	return profiles[p].name
}

// TokenizerName is the name of the morphological tokenizer in an index mapping.
func (p Profile) TokenizerName() string {
	if !p.Valid() {
		return ""
	}
	return profiles[p].tokenizer
}

// DictionaryName names the dictionary resource backing the profile.
func (p Profile) DictionaryName() string {
	if !p.Valid() {
		return ""
	}
	return profiles[p].dictionary
}

// ParseProfile resolves a profile name or alias, case-insensitively.
func ParseProfile(s string) (Profile, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, info := range profiles {
		if key == info.name || key == info.tokenizer {
			return Profile(i), nil
		}
		for _, alias := range info.aliases {
			if key == alias {
				return Profile(i), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown language profile %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Profile) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid language profile %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Profile) UnmarshalText(text []byte) error {
	parsed, err := ParseProfile(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
