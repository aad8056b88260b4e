// Package validation, tablo ve kolon isimleri ile sıralama yönlerini SQL metnine
// yazılmadan önce doğrulayan dahili yardımcı fonksiyonları içerir.
//
// Filtre anahtarları doğrudan çağıran tarafından gelir ("_like_name" gibi), bu yüzden
// anahtardan ayrıştırılan her kolon adı burada kontrol edilmeden sorguya giremez.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// identifierRegex, MySQL'in tırnaksız tanımlayıcı kuralını uygular: harf, rakam,
// alt çizgi ve $. Rakamla başlayabilir ("2fa_codes") ama yalnızca rakamlardan
// oluşamaz. Unicode harfler kabul edilir (ör. Çince kolon adları).
var (
	identifierRegex = regexp.MustCompile(`^[\p{L}\p{N}_$]+$`)
	allDigitsRegex  = regexp.MustCompile(`^[0-9]+$`)
)

// MaxIdentifierLength, MySQL'in tanımlayıcı uzunluk sınırıdır.
const MaxIdentifierLength = 64

// ValidateIdentifier, verilen ismin güvenli bir SQL tanımlayıcısı olup olmadığını kontrol eder.
func ValidateIdentifier(id string) error {
	if id == "" {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier cannot be empty",
		}
	}

	if utf8.RuneCountInString(id) > MaxIdentifierLength {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier exceeds maximum length of 64 characters",
		}
	}

	if !identifierRegex.MatchString(id) {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier contains invalid characters; only letters, numbers, underscores and $ are allowed",
		}
	}

	if allDigitsRegex.MatchString(id) {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier cannot consist of digits only",
		}
	}

	return nil
}

// ValidateName, information_schema'dan okunan bir ismi kontrol eder. Bu isimler
// sunucunun kabul ettiği her karakteri içerebilir ("first-name" gibi); yalnızca
// boş, 64 karakterden uzun, geçersiz UTF-8 veya NUL içeren isimler reddedilir.
// Güvenlik QuoteIdentifier ile sağlanır.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &IdentifierError{Identifier: name, Reason: "identifier cannot be empty"}
	case !utf8.ValidString(name):
		return &IdentifierError{Identifier: name, Reason: "identifier is not valid UTF-8"}
	case strings.ContainsRune(name, 0):
		return &IdentifierError{Identifier: name, Reason: "identifier contains a NUL character"}
	case utf8.RuneCountInString(name) > MaxIdentifierLength:
		return &IdentifierError{Identifier: name, Reason: "identifier exceeds maximum length of 64 characters"}
	}
	return nil
}

// QuoteIdentifier, ismi backtick ile sarar; isimdeki backtick'ler ikilenir.
//
//	QuoteIdentifier("first-name") // `first-name`
//	QuoteIdentifier("a`b")        // `a``b`
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// ValidateTable, tablo adını doğrular. Takma ad (alias) desteklenmez.
func ValidateTable(table string) error {
	if err := ValidateIdentifier(table); err != nil {
		return &IdentifierError{Identifier: table, Reason: "invalid table name: " + err.(*IdentifierError).Reason}
	}
	return nil
}

// IdentifierError, tanımlayıcı doğrulama hatalarını temsil eder.
type IdentifierError struct {
	Identifier string
	Reason     string
}

// Error, error arayüzünü uygular.
func (e *IdentifierError) Error() string {
	if e.Identifier == "" {
		return "fluentdao: invalid identifier: " + e.Reason
	}
	return "fluentdao: invalid identifier '" + e.Identifier + "': " + e.Reason
}
