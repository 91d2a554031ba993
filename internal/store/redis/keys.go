package redis

import (
	"crypto/sha1"
	"encoding/hex"
)

const (
	// KeyPrefixProduct is the prefix for product record keys
	KeyPrefixProduct = "dropalert:product:"
	// KeyPrefixAlert is the prefix for price alert record keys
	KeyPrefixAlert = "dropalert:alert:"
	// KeyPrefixUser is the prefix for per-user keys
	KeyPrefixUser = "dropalert:user:"
	// KeyAllProducts is the key for the set of all tracked product IDs
	KeyAllProducts = "dropalert:products:all"
)

// ProductKey returns the Redis key for a product by ID
func ProductKey(id string) string {
	return KeyPrefixProduct + id
}

// AlertKey returns the Redis key for a price alert by ID
func AlertKey(id string) string {
	return KeyPrefixAlert + id
}

// UserProductsKey returns the key for the set of a user's product IDs
func UserProductsKey(userID string) string {
	return KeyPrefixUser + userID + ":products"
}

// UserURLKey returns the key that enforces (user, url) uniqueness. The URL is
// hashed so arbitrary user input never lands in a key verbatim.
func UserURLKey(userID, url string) string {
	sum := sha1.Sum([]byte(url))
	return KeyPrefixUser + userID + ":url:" + hex.EncodeToString(sum[:])
}

// ProductAlertsKey returns the key for the set of a product's alert IDs
func ProductAlertsKey(productID string) string {
	return KeyPrefixProduct + productID + ":alerts"
}
