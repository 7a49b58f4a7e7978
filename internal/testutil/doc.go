// Package testutil holds instance fixtures shared by package tests.
//
// Every fixture is rebuilt on each call, so tests may mutate what they get.
// testutil depends only on ir.
package testutil
