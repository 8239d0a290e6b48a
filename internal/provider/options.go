// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package provider

// ChildOptions are the extra options of ls.
type ChildOptions struct {
	// Token overrides every other credential for this call.
	Token string
}

// ContentReadOptions are the extra options of cat.
type ContentReadOptions struct {
	AsByteStream bool
	Delimiter    string
	Raw          bool
}

// ContentWriteOptions are the extra options of set and add.
type ContentWriteOptions struct {
	Delimiter string
}

// NewItemOptions are the extra options of new.
type NewItemOptions struct {
	Description string
	Public      bool
}
