// Package models defines the core domain models for Hisab.
//
// # Models
//
//   - User: a registered account; every other model references users by ID
//   - Group: a named set of members sharing expenses in one currency
//   - Expense: a paid amount divided into Splits across group members
//   - Settlement: a payment between two members reducing outstanding debt
//   - MemberBalance / Dashboard: derived read-time views, never persisted
//
// # Design Principles
//
//  1. Relationships use ID strings, not pointers, to avoid circular references
//  2. Balances are projections of the expense/settlement history and are
//     recomputed on every read (see the calculator package)
//  3. Amounts are float64 rounded to 2 decimals; comparisons allow a 0.01
//     tolerance throughout
package models
