package domain

import (
	apperrors "github.com/allisson/cardbook/internal/errors"
)

// Network is the card-issuing scheme. Each network carries its own
// numbering rules (length and leading-digit prefix).
type Network string

// Supported card networks.
const (
	NetworkVisa       Network = "Visa"
	NetworkMastercard Network = "Mastercard"
	NetworkAmex       Network = "Amex"
	NetworkUnionPay   Network = "UnionPay"
	NetworkJCB        Network = "JCB"
)

// Networks lists every supported network in display order.
func Networks() []Network {
	return []Network{NetworkVisa, NetworkMastercard, NetworkAmex, NetworkUnionPay, NetworkJCB}
}

// ParseNetwork converts wire data into a Network, failing closed on
// unknown values instead of propagating them.
func ParseNetwork(s string) (Network, error) {
	switch Network(s) {
	case NetworkVisa, NetworkMastercard, NetworkAmex, NetworkUnionPay, NetworkJCB:
		return Network(s), nil
	default:
		return "", apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown card network %q", s)
	}
}

// Level is the marketing rank of a card. It affects display only,
// never validation.
type Level string

// Supported card levels.
const (
	LevelStandard Level = "Standard"
	LevelGold     Level = "Gold"
	LevelPlatinum Level = "Platinum"
	LevelDiamond  Level = "Diamond"
	LevelInfinite Level = "Infinite"
)

// Levels lists every supported level in ascending rank order.
func Levels() []Level {
	return []Level{LevelStandard, LevelGold, LevelPlatinum, LevelDiamond, LevelInfinite}
}

// ParseLevel converts wire data into a Level, failing closed on unknown values.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelStandard, LevelGold, LevelPlatinum, LevelDiamond, LevelInfinite:
		return Level(s), nil
	default:
		return "", apperrors.Wrapf(apperrors.ErrInvalidInput, "unknown card level %q", s)
	}
}

// Gradients is the fixed palette of named card-face styles.
var Gradients = map[string]string{
	"sunset": "from-rose-400 to-orange-600",
	"ocean":  "from-blue-400 to-cyan-600",
	"aurora": "from-violet-400 to-fuchsia-600",
	"citrus": "from-yellow-400 to-orange-500",
	"mint":   "from-emerald-400 to-teal-600",
	"grape":  "from-purple-500 to-indigo-700",
	"coral":  "from-red-400 to-pink-600",
	"forest": "from-green-500 to-emerald-700",
	"sky":    "from-sky-400 to-blue-600",
	"amber":  "from-amber-500 to-red-600",
}

// IsGradientKey reports whether key names a palette entry.
func IsGradientKey(key string) bool {
	_, ok := Gradients[key]
	return ok
}

// DefaultGradient returns the default style key for a network, falling
// back to "sunset" for unknown values.
func DefaultGradient(n Network) string {
	switch n {
	case NetworkVisa:
		return "aurora"
	case NetworkMastercard:
		return "citrus"
	case NetworkAmex:
		return "grape"
	case NetworkUnionPay:
		return "mint"
	case NetworkJCB:
		return "sunset"
	default:
		return "sunset"
	}
}
