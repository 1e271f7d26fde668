// Package loginkey implements the password encryption step of the router login.
//
// Before each login the router hands out a fresh RSA public key (modulus and
// exponent as hex strings). The password is padded with PKCS#1 v1.5 type 2,
// encrypted with that key and submitted as a hex string. The key is only good for
// one login attempt, so callers must fetch new material every time.
//
//	enc := loginkey.New()
//	blob, err := enc.Encrypt("hunter2", []byte(`["D1E79FF1...","010001"]`))
package loginkey
