/*
Package mindmap implements the tree model behind mind maps: named nodes with
optional text, each owning an ordered list of children.

A map is a single tree whose root carries the map name. Three algorithms
operate on it:

  - Insert adds a slash-separated path, reusing nodes which already exist
  - Lookup resolves a node name to its full path with a breadth-first search
  - Render produces an indented text dump

Persistence is behind the Store interface; implementations live in the store
sub-package. Service ties the two together as explicit load, mutate and save
steps.
*/
package mindmap
