// Package curriculum models the ordered course structure that engagement is
// reconciled against, and loads it from CSV or JSON files.
package curriculum
