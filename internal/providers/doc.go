// Package providers groups the shell's pluggable backends: language
// model completion (llm), user settings persistence (settings), and
// saved workflow storage with teach-mode recording (workflow).
package providers
