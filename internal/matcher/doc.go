// Package matcher binds media files to their JSON sidecars in three tiers:
// direct candidate-path probing, fuzzy filename similarity, and filename
// date inference. Each tier sees only the files the previous tiers left
// unresolved, and each tier runs over the whole file set before the next
// begins.
package matcher
