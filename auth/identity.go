package auth

// Profile holds the user-editable fields of an Identity.
type Profile struct {
	FirstName string
	LastName  string
	Note      string
}

// Identity is the durable record of one registered user.
//
// Username is the unique lookup key and PublicKey is the asymmetric key
// (an age x25519 recipient in "age1..." encoding) registered at provisioning
// time; both are immutable as far as this subsystem is concerned.
// Secret is a sensitive credential the vendor stores on the user's behalf;
// together with Profile it is mutable by the owning user only, through
// VendorService.SaveProfile.
type Identity struct {
	ID        int64
	Username  string
	PublicKey string
	Secret    string
	Profile   Profile
}
