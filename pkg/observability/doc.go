/*
Package observability provides tools for monitoring rewind stores.

It turns store lifecycle hooks into Prometheus metrics (dispatch counts per
action kind, rejections, head position and log length) and structured log
lines, so hosts can watch how users move through their history.
*/
package observability
