package split

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateSplits checks that a set of splits is internally consistent for
// the given mode. It is used both as a pre-submission guard and again at
// the trust boundary before persistence, so it carries no HTTP or form
// dependencies.
//
//	EQUAL       valid whenever at least one split exists
//	PERCENTAGE  percentages must sum to 100 within the 0.01 tolerance
//	CUSTOM      amounts must sum to the total within the 0.01 tolerance
func ValidateSplits(totalAmount decimal.Decimal, splits []Split, mode SplitMode) ValidationResult {
	if len(splits) == 0 {
		return invalid("No splits provided")
	}

	switch mode {
	case SplitModeEqual:
		return valid()
	case SplitModePercentage:
		return checkPercentageSum(splitPercentageSum(splits))
	case SplitModeCustom:
		return checkAmountSum(totalAmount, splitAmountSum(splits))
	default:
		return invalid(fmt.Sprintf("Unknown split mode: %s", mode))
	}
}

// ValidatePayments is the payment-side counterpart of ValidateSplits.
// SINGLE mode additionally requires the first payment to cover the full
// total.
func ValidatePayments(totalAmount decimal.Decimal, payments []Payment, mode PaymentMode) ValidationResult {
	if len(payments) == 0 {
		return invalid("No payments provided")
	}

	switch mode {
	case PaymentModeSingle:
		if payments[0].Amount.Sub(totalAmount).Abs().GreaterThan(tolerance) {
			return invalid(fmt.Sprintf("Single payer must pay the full amount of %s", totalAmount.StringFixed(2)))
		}
		return valid()
	case PaymentModePercentage:
		return checkPercentageSum(paymentPercentageSum(payments))
	case PaymentModeCustom:
		return checkAmountSum(totalAmount, paymentAmountSum(payments))
	default:
		return invalid(fmt.Sprintf("Unknown payment mode: %s", mode))
	}
}

func checkPercentageSum(sum decimal.Decimal) ValidationResult {
	if sum.Sub(hundred).Abs().GreaterThan(tolerance) {
		return invalid(fmt.Sprintf("Percentages must add up to 100%%, currently %s%%", sum.StringFixed(2)))
	}
	return valid()
}

func checkAmountSum(total, sum decimal.Decimal) ValidationResult {
	if sum.Sub(total).Abs().GreaterThan(tolerance) {
		return invalid(fmt.Sprintf("Amounts must add up to %s, currently %s", total.StringFixed(2), sum.StringFixed(2)))
	}
	return valid()
}

func splitAmountSum(splits []Split) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.Amount)
	}
	return sum
}

func splitPercentageSum(splits []Split) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range splits {
		if s.Percentage != nil {
			sum = sum.Add(*s.Percentage)
		}
	}
	return sum
}

func paymentAmountSum(payments []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

func paymentPercentageSum(payments []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.Percentage != nil {
			sum = sum.Add(*p.Percentage)
		}
	}
	return sum
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{IsValid: false, Error: msg}
}
