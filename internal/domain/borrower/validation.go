package borrower

// Validate checks the attributes in a fixed order and returns the first
// failure.
func Validate(in Input) error {
	if in.AnnualIncome.IsNegative() {
		return ErrInvalidAnnualIncome
	}
	if in.DateOfBirth == nil || in.DateOfBirth.IsZero() {
		return ErrMissingDateOfBirth
	}
	return nil
}
