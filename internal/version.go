package internal

// Version is the mathcards release version.
const Version = "0.1.0"
