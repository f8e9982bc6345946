package model

type UnprocessableMessageDocument struct {
	MessageBody string `bson:"message_body"`
	Receipt     string `bson:"receipt"`
	QueueName   string `bson:"queue_name"`
}

func NewUnprocessableMessageDocument(messageBody, receipt, queueName string) *UnprocessableMessageDocument {
	return &UnprocessableMessageDocument{
		MessageBody: messageBody,
		Receipt:     receipt,
		QueueName:   queueName,
	}
}
