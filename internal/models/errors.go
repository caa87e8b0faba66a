package models

// ProtocolError is a named, non-retryable rejection. Every operation that
// fails validation returns one of these and leaves all records untouched.
type ProtocolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ProtocolError) Error() string { return e.Message }

// ConflictError reports an attempt to create a record that already exists
// for the same identity key.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// Conflict wraps a duplicate-record rejection.
func Conflict(message string) error {
	return &ConflictError{Message: message}
}

var (
	ErrNameTooLong = &ProtocolError{"NameTooLong", "the name provided for creating the xNFT exceeded the byte limit"}

	ErrUriExceedsMaxLength = &ProtocolError{"UriExceedsMaxLength", "the metadata uri provided exceeded the maximum length"}

	ErrRatingOutOfBounds = &ProtocolError{"RatingOutOfBounds", "the rating for a review must be between 0 and 5"}

	ErrInstallAuthorityMismatch = &ProtocolError{"InstallAuthorityMismatch", "the provided xNFT install authority did not match"}

	ErrCuratorMismatch = &ProtocolError{"CuratorMismatch", "the provided curator account did not match the one assigned"}

	ErrCuratorAuthorityMismatch = &ProtocolError{"CuratorAuthorityMismatch", "the expected curator authority did not match expected"}

	ErrCuratorAlreadySet = &ProtocolError{"CuratorAlreadySet", "there is already a verified curator assigned"}

	ErrUpdateAuthorityMismatch = &ProtocolError{"UpdateAuthorityMismatch", "the signer did not match the update authority of the metadata"}

	ErrUnauthorizedInstall = &ProtocolError{"UnauthorizedInstall", "the access account provided is not associated with the wallet"}

	ErrInstallExceedsSupply = &ProtocolError{"InstallExceedsSupply", "the max supply has been reached for the xNFT"}

	ErrSupplyReduction = &ProtocolError{"SupplyReduction", "updated supply is less than the original supply set on creation"}

	ErrSuspendedInstallation = &ProtocolError{"SuspendedInstallation", "attempting to install a currently suspended xNFT"}

	ErrXnftNotDeletable = &ProtocolError{"XnftNotDeletable", "the xNFT still has installations or reviews and cannot be deleted"}

	ErrCannotReviewOwned = &ProtocolError{"CannotReviewOwned", "you cannot create a review for an xNFT that you currently own or published"}

	ErrUnknownCreator = &ProtocolError{"UnknownCreator", "a creator in the metadata had no matching destination account"}

	ErrMustBeApp = &ProtocolError{"MustBeApp", "the operation is only valid for an xNFT of the app kind"}

	ErrReviewInstallMismatch = &ProtocolError{"ReviewInstallMismatch", "the installation provided for the review does not match the xNFT"}

	ErrInstallOwnerMismatch = &ProtocolError{"InstallOwnerMismatch", "the asserted authority did not match that of the install account"}

	ErrMetadataIsImmutable = &ProtocolError{"MetadataIsImmutable", "the metadata of the xNFT is marked as immutable"}

	ErrInsufficientFunds = &ProtocolError{"InsufficientFunds", "the wallet balance does not cover the required payment"}

	ErrArithmeticOverflow = &ProtocolError{"ArithmeticOverflow", "a counter or aggregate would overflow"}

	ErrArithmeticUnderflow = &ProtocolError{"ArithmeticUnderflow", "a counter or aggregate would underflow"}
)
