/*
schema defines the data model for conversations, messages and assistants,
and the narrow storage contracts the chat pipeline writes through.
*/
package schema
