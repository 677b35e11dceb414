// Package model defines the gallery's domain structures: per-item asset
// slots, their load status, and materialized assets. A slot carries its own
// lock so loads on different items never contend with each other.
package model
