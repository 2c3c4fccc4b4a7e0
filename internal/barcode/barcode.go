// Package barcode encodes and decodes weight-embedded EAN-13 restricted
// circulation barcodes.
//
// Layout of a weighted code (0-indexed character positions):
//
//	0  1 | 2  3  4  5  6 | 7  8  9  10 11 | 12
//	"21" | scale PLU     | weight (grams) | check digit
//
// A physical scale prints this string and a scanner emits it as keystrokes.
package barcode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	WeightedPrefix = "21"

	PLULength     = 5
	WeightLength  = 5
	PayloadLength = len(WeightedPrefix) + PLULength + WeightLength
	CodeLength    = PayloadLength + 1

	MaxWeightGrams = 99999
)

var (
	ErrInvalidPLU       = errors.New("scale PLU must be 1 to 5 digits")
	ErrWeightOutOfRange = errors.New("weight must round to between 1 and 99999 grams")
	ErrInvalidPayload   = errors.New("checksum payload must be 12 digits")
)

var gramsPerKg = decimal.NewFromInt(1000)

// ParsedBarcode is the result of Decode. ScalePLU and WeightKg are only set
// when IsWeighted is true; WeightKg is nil otherwise.
type ParsedBarcode struct {
	IsWeighted   bool             `json:"isWeighted"`
	ScalePLU     string           `json:"scalePlu,omitempty"`
	WeightKg     *decimal.Decimal `json:"weightKg,omitempty"`
	OriginalCode string           `json:"originalCode"`
}

// Decode parses a scanned code. Malformed input is never an error: anything
// that is not a 12 or 13 digit code starting with "21" comes back with
// IsWeighted false. The check digit of a 13 digit code is not verified here;
// use VerifyChecksum for that.
func Decode(code string) ParsedBarcode {
	notWeighted := ParsedBarcode{OriginalCode: code}

	if len(code) != PayloadLength && len(code) != CodeLength {
		return notWeighted
	}
	if !isDigits(code) {
		return notWeighted
	}
	if code[:2] != WeightedPrefix {
		return notWeighted
	}

	plu := code[2:7]
	grams, err := strconv.ParseInt(code[7:12], 10, 64)
	if err != nil {
		return notWeighted
	}

	weight := decimal.NewFromInt(grams).Div(gramsPerKg)

	return ParsedBarcode{
		IsWeighted:   true,
		ScalePLU:     plu,
		WeightKg:     &weight,
		OriginalCode: code,
	}
}

// Encode builds the 13 digit weighted code for a PLU and a weight in kg.
// The weight is quantised to whole grams, rounding half away from zero.
func Encode(plu string, weightKg decimal.Decimal) (string, error) {
	paddedPLU, err := NormalizePLU(plu)
	if err != nil {
		return "", err
	}

	grams := weightKg.Mul(gramsPerKg).Round(0)
	if grams.LessThan(decimal.NewFromInt(1)) || grams.GreaterThan(decimal.NewFromInt(MaxWeightGrams)) {
		return "", fmt.Errorf("%w: got %s kg", ErrWeightOutOfRange, weightKg.String())
	}

	payload := WeightedPrefix + paddedPLU + fmt.Sprintf("%0*d", WeightLength, grams.IntPart())

	checksum, err := Checksum(payload)
	if err != nil {
		return "", err
	}

	return payload + strconv.Itoa(checksum), nil
}

// NormalizePLU left-pads a 1 to 5 digit PLU with zeros.
func NormalizePLU(plu string) (string, error) {
	if plu == "" || len(plu) > PLULength || !isDigits(plu) {
		return "", fmt.Errorf("%w: got %q", ErrInvalidPLU, plu)
	}

	return strings.Repeat("0", PLULength-len(plu)) + plu, nil
}

// Checksum computes the EAN-13 mod-10 check digit of a 12 digit payload.
func Checksum(payload string) (int, error) {
	if len(payload) != PayloadLength || !isDigits(payload) {
		return 0, ErrInvalidPayload
	}

	sum := 0
	for i := 0; i < PayloadLength; i++ {
		digit := int(payload[i] - '0')
		if i%2 == 0 {
			sum += digit
		} else {
			sum += digit * 3
		}
	}

	return (10 - sum%10) % 10, nil
}

// VerifyChecksum reports whether a 13 digit code carries the correct check
// digit. Twelve digit codes have no check digit and always fail.
func VerifyChecksum(code string) bool {
	if len(code) != CodeLength || !isDigits(code) {
		return false
	}

	want, err := Checksum(code[:PayloadLength])
	if err != nil {
		return false
	}

	return int(code[PayloadLength]-'0') == want
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
