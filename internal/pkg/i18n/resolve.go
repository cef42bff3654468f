// Package i18n implements the language fallback rule shared by every
// localized read path. All consumers resolve translations through
// Resolve; the rule must never be reimplemented elsewhere.
package i18n

// Localized is implemented by any translation row that carries a
// language code.
type Localized interface {
	Locale() string
}

// Resolve picks the best translation for the requested language:
//
//  1. a translation whose language equals requested
//  2. else, when requested differs from fallback, a translation in
//     the fallback language
//  3. else the first translation in the given order (callers pass
//     store order, which is stable by ascending id)
//
// The second return value is false only when labels is empty; callers
// on read paths substitute a non-localized identifier in that case.
func Resolve[T Localized](labels []T, requested, fallback string) (T, bool) {
	for _, l := range labels {
		if l.Locale() == requested {
			return l, true
		}
	}

	if requested != fallback {
		for _, l := range labels {
			if l.Locale() == fallback {
				return l, true
			}
		}
	}

	if len(labels) > 0 {
		return labels[0], true
	}

	var zero T
	return zero, false
}
