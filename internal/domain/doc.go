// Package domain defines the core business entities of the learning
// engine: questions, teachings, delivery-method variants, attempt
// performance records, delivery-method scores, and XP events.
//
// Entities are plain structs with constructor functions and Validate
// methods. They carry no persistence or transport concerns; those live
// in the store and api packages respectively.
package domain
