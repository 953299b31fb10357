// Package services contains stateless domain services.
//
// StatusMapper is the single place where provider specific status vocabularies
// meet the canonical order.Status progression.
package services
