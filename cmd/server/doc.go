// Command server runs the Glide browser shell backend.
package main
